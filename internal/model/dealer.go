package model

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// ManagerData is one scored row: either a dealer's subtotal row or a contributor row.
// A nil entry in Metrics means the cell held no numeric data.
type ManagerData struct {
	Name          string              `json:"name" yaml:"name"`
	Metrics       map[string]*float64 `json:"metrics" yaml:"metrics"`
	FailedMetrics []FailedMetric      `json:"failed_metrics" yaml:"failed_metrics"`
}

// DealerData is the per-dealer unit of report output.
type DealerData struct {
	Name             string         `json:"name" yaml:"name"`
	Summary          ManagerData    `json:"summary" yaml:"summary"`
	Managers         []ManagerData  `json:"managers" yaml:"managers"`
	IsPassing        bool           `json:"is_passing" yaml:"is_passing"`
	DealerFailures   []FailedMetric `json:"dealer_failures" yaml:"dealer_failures"`
	DominantCategory string         `json:"dominant_category,omitempty" yaml:"dominant_category,omitempty"`
	Analysis         string         `json:"analysis" yaml:"analysis"`
}

// AllGood reports whether neither the dealer nor any contributor has a failure.
func (d DealerData) AllGood() bool {
	return d.IsPassing && len(d.Managers) == 0
}

// CityReport maps city name to dealers, remembering the order cities were first seen.
type CityReport struct {
	order   []string
	dealers map[string][]DealerData
}

// NewCityReport returns an empty report.
func NewCityReport() *CityReport {
	return &CityReport{dealers: make(map[string][]DealerData)}
}

// Append adds a dealer under city, registering the city on first use.
func (r *CityReport) Append(city string, d DealerData) {
	if _, ok := r.dealers[city]; !ok {
		r.order = append(r.order, city)
	}
	r.dealers[city] = append(r.dealers[city], d)
}

// Cities returns city names in first-seen order.
func (r *CityReport) Cities() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Dealers returns the dealers recorded for city, or nil.
func (r *CityReport) Dealers(city string) []DealerData {
	return r.dealers[city]
}

// Len returns the number of cities.
func (r *CityReport) Len() int { return len(r.order) }

// DealerCount returns the number of dealers across all cities.
func (r *CityReport) DealerCount() int {
	n := 0
	for _, ds := range r.dealers {
		n += len(ds)
	}
	return n
}

// MarshalJSON encodes the report as an object whose keys keep first-seen order.
func (r *CityReport) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, city := range r.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(city)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.dealers[city])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of city → dealers, keeping key order.
func (r *CityReport) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return err
	}
	r.order = nil
	r.dealers = make(map[string][]DealerData)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		city, _ := tok.(string)
		var ds []DealerData
		if err := dec.Decode(&ds); err != nil {
			return err
		}
		if _, ok := r.dealers[city]; !ok {
			r.order = append(r.order, city)
		}
		r.dealers[city] = ds
	}
	_, err := dec.Token()
	return err
}

// MarshalYAML encodes the report as a mapping node in first-seen city order.
func (r *CityReport) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, city := range r.order {
		var val yaml.Node
		if err := val.Encode(r.dealers[city]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: city},
			&val,
		)
	}
	return node, nil
}
