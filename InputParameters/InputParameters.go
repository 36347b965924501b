package InputParameters

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/ingest/optimizer"
)

// Parameters obtained from the YAML input file for an optimizer run.
// ghodss/yaml converts to JSON before decoding, so the json tags apply.
type OptimizerParameters struct {
	Title      string               `json:"Title"`
	Trials     int                  `json:"Trials"`
	TopK       int                  `json:"TopK"`
	Column     int                  `json:"Column"`     // CSV column holding the data series
	SkipHeader bool                 `json:"SkipHeader"` // drop the first CSV row
	Configs    []map[string]float64 `json:"Configs"`
}

func (ip *OptimizerParameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, ip); err != nil {
		return err
	}
	if ip.Trials == 0 {
		ip.Trials = optimizer.DefaultTrials
	}
	if ip.TopK == 0 {
		ip.TopK = optimizer.DefaultTopK
	}
	return ip.Validate()
}

// Validate reports every problem at once
func (ip *OptimizerParameters) Validate() error {
	var errs []string
	if ip.Trials < 1 {
		errs = append(errs, fmt.Sprintf("Trials (%d) must be at least 1", ip.Trials))
	}
	if ip.TopK < 1 {
		errs = append(errs, fmt.Sprintf("TopK (%d) must be at least 1", ip.TopK))
	}
	if ip.Column < 0 {
		errs = append(errs, fmt.Sprintf("Column (%d) must not be negative", ip.Column))
	}
	if len(ip.Configs) == 0 {
		errs = append(errs, "Configs must list at least one configuration")
	}
	for i, cfg := range ip.Configs {
		if _, ok := cfg[optimizer.SpeedOption]; !ok {
			errs = append(errs, fmt.Sprintf("Configs[%d] has no %q option", i, optimizer.SpeedOption))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid input parameters:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func (ip *OptimizerParameters) OptimizerConfigs() []optimizer.Config {
	configs := make([]optimizer.Config, len(ip.Configs))
	for i, cfg := range ip.Configs {
		configs[i] = optimizer.Config(cfg)
	}
	return configs
}

func (ip *OptimizerParameters) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "[%d]\t\t\t= Trials\n", ip.Trials)
	fmt.Fprintf(w, "[%d]\t\t\t= TopK\n", ip.TopK)
	fmt.Fprintf(w, "[%d]\t\t\t= Column\n", ip.Column)
	fmt.Fprintf(w, "[%v]\t\t\t= SkipHeader\n", ip.SkipHeader)
	for i, cfg := range ip.Configs {
		fmt.Fprintf(w, "Configs[%d] = %s\n", i, FormatConfig(cfg))
	}
}

// FormatConfig prints options in key order so output is stable
func FormatConfig(cfg map[string]float64) string {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, cfg[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
