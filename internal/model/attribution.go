package model

// DealerAttribution assigns a dealer to a city and a business manager.
type DealerAttribution struct {
	DealerName      string `json:"dealer_name" yaml:"dealer_name"`
	City            string `json:"city" yaml:"city"`
	BusinessManager string `json:"business_manager" yaml:"business_manager"`
}

// AttributionMap is keyed by dealer name. Each name maps to exactly one entry.
type AttributionMap map[string]DealerAttribution
