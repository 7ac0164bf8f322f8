package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/StockCut/internal/model"
	"github.com/pkg/errors"
)

// JobExt is the file extension of saved jobs.
const JobExt = ".stockcut"

// SaveJob writes a job (demands, parent stock, settings and the last result)
// to path. The extension is added when missing. The written path is returned.
func SaveJob(path string, job model.Job) (string, error) {
	if !strings.HasSuffix(path, JobExt) {
		path += JobExt
	}
	if err := writeJSON(path, job); err != nil {
		return "", errors.Wrapf(err, "save job %s", path)
	}
	return path, nil
}

// LoadJob reads a job written by SaveJob.
func LoadJob(path string) (model.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Job{}, errors.Wrapf(err, "load job %s", path)
	}
	job := model.Job{Settings: model.DefaultSettings()}
	if err := json.Unmarshal(data, &job); err != nil {
		return model.Job{}, errors.Wrapf(err, "parse job %s", path)
	}
	if job.Demands == nil {
		job.Demands = []model.Demand{}
	}
	if job.Name == "" {
		job.Name = strings.TrimSuffix(filepath.Base(path), JobExt)
	}
	return job, nil
}
