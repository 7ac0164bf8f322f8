package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/piwi3910/StockCut/internal/model"
	"github.com/pkg/errors"
)

// WriteJSON writes the result as indented JSON. Rolls are encoded as
// [unused, [cuts...]] pairs.
func WriteJSON(w io.Writer, result model.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(result), "encode result")
}

// WriteTextReport writes a plain-text cut plan: a header naming the parent
// width and the demands as [quantity, length] pairs, then one line per roll
// with its cuts longest first, then a blank line.
func WriteTextReport(w io.Writer, width float64, demands []model.Demand, result model.Result) error {
	pairs := make([]string, len(demands))
	for i, d := range demands {
		pairs[i] = fmt.Sprintf("[%d, %g]", d.Quantity, d.Length)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "For parent length %g and demands (quantity, length) [%s]\n", width, strings.Join(pairs, ", "))
	for i, roll := range result.Solutions {
		fmt.Fprintf(&b, "Pattern for roll #%d: %s\n", i+1, formatCuts(SortedCuts(roll)))
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return errors.Wrap(err, "write report")
}

// AppendTextReport appends the text report to the file at path, creating it
// if needed.
func AppendTextReport(path string, width float64, demands []model.Demand, result model.Result) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	if err := WriteTextReport(f, width, demands, result); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SortedCuts returns the cuts of a roll longest first.
func SortedCuts(roll model.RollAssignment) []float64 {
	cuts := append([]float64(nil), roll.Cuts...)
	sort.Sort(sort.Reverse(sort.Float64Slice(cuts)))
	return cuts
}

func formatCuts(cuts []float64) string {
	parts := make([]string, len(cuts))
	for i, c := range cuts {
		parts[i] = fmt.Sprintf("%g", c)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
