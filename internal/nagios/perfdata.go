package nagios

import "fmt"

// PerfData is one performance-data item in the plugin output format
// 'label'=value[UOM];warn;crit;min;max. Values are integral, matching the
// graphing templates the probe has always fed.
type PerfData struct {
	Label string `json:"label" yaml:"label"`
	Value int    `json:"value" yaml:"value"`
	UOM   string `json:"uom,omitempty" yaml:"uom,omitempty"`
	Warn  int    `json:"warn" yaml:"warn"`
	Crit  int    `json:"crit" yaml:"crit"`
	Min   int    `json:"min" yaml:"min"`
	Max   int    `json:"max" yaml:"max"`
}

// String renders the item in machine-parsable key=value form.
func (p PerfData) String() string {
	return fmt.Sprintf("'%s'=%d%s;%d;%d;%d;%d", p.Label, p.Value, p.UOM, p.Warn, p.Crit, p.Min, p.Max)
}
