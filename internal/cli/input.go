package cli

import (
	"strings"

	"github.com/golang/glog"
	"github.com/piwi3910/StockCut/internal/importer"
	"github.com/piwi3910/StockCut/internal/model"
	"github.com/piwi3910/StockCut/internal/project"
	"github.com/pkg/errors"
)

// request is a demand list with the parent stock to cut it from.
type request struct {
	demands []model.Demand
	parents []model.ParentStock
	price   float64 // per parent roll, from the inventory preset
}

// loadRequest gathers demands from exactly one of --demands, --file or
// --job, and parent stock from --parent, the job, a stock preset or the
// configured width, in that order.
func loadRequest(opts *options, cfg model.AppConfig) (request, error) {
	var req request

	sources := 0
	for _, s := range []string{opts.demands, opts.file, opts.job} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		return req, errors.New("give exactly one of --demands, --file or --job")
	}

	switch {
	case opts.demands != "":
		demands, err := importer.ParseDemandList(opts.demands)
		if err != nil {
			return req, err
		}
		req.demands = demands
	case opts.file != "":
		res := importer.ImportFile(opts.file)
		for _, w := range res.Warnings {
			glog.Warningf("%s: %s", opts.file, w)
		}
		if len(res.Errors) > 0 {
			return req, errors.Errorf("%s: %s", opts.file, strings.Join(res.Errors, "; "))
		}
		req.demands = res.Demands
	case opts.job != "":
		job, err := project.LoadJob(opts.job)
		if err != nil {
			return req, err
		}
		req.demands = job.Demands
		if job.Parent.Width > 0 {
			req.parents = []model.ParentStock{job.Parent}
		}
	}

	if len(opts.parents) > 0 {
		parents, err := parseParents(strings.Join(opts.parents, ","))
		if err != nil {
			return req, err
		}
		req.parents = parents
	}
	if len(req.parents) > 0 {
		return req, nil
	}

	if cfg.DefaultStockPreset != "" {
		inv, _, err := project.LoadOrCreateInventory()
		if err != nil {
			glog.Warningf("inventory: %v", err)
		}
		preset := inv.FindStockByName(cfg.DefaultStockPreset)
		if preset == nil {
			return req, errors.Errorf("unknown stock preset %q", cfg.DefaultStockPreset)
		}
		req.parents = []model.ParentStock{preset.ToParentStock(1)}
		req.price = preset.PricePerRoll
		return req, nil
	}

	req.parents = []model.ParentStock{model.NewParentStock("Parent", cfg.DefaultParentWidth, 1)}
	return req, nil
}

// parseParents reads QTYxWIDTH items with the demand list syntax.
func parseParents(s string) ([]model.ParentStock, error) {
	items, err := importer.ParseDemandList(s)
	if err != nil {
		return nil, errors.Wrap(err, "parent stock")
	}
	parents := make([]model.ParentStock, len(items))
	for i, it := range items {
		parents[i] = model.NewParentStock("Parent", it.Length, it.Quantity)
	}
	return parents, nil
}
