package registry

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// endpointJSON mirrors one entry of the mcp_endpoints.json service map.
type endpointJSON struct {
	Name       string `json:"name"`
	URL        string `json:"url"`
	TTLSeconds int    `json:"ttl_seconds"`
	Cache      *bool  `json:"cache"`
}

// configJSON is the top-level shape of an mcp_endpoints.json document.
type configJSON struct {
	Services map[string]endpointJSON `json:"mcp_services"`
}

// ParseConfig decodes an mcp_endpoints.json document into endpoint
// configurations, sorted by key. Omitted ttl_seconds defaults to DefaultTTL;
// omitted cache defaults to true. Validation happens in New, not here.
//
// Document shape:
//
//	{
//	  "mcp_services": {
//	    "demo_info": {
//	      "name": "Demo Info",
//	      "url": "https://httpbin.org/json",
//	      "ttl_seconds": 300,
//	      "cache": true
//	    }
//	  }
//	}
func ParseConfig(data []byte) ([]EndpointConfig, error) {
	var doc configJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse endpoint config: %w", err)
	}
	if doc.Services == nil {
		return nil, &ConfigError{Reason: "missing mcp_services key"}
	}

	configs := make([]EndpointConfig, 0, len(doc.Services))
	for key, e := range doc.Services {
		ttl := DefaultTTL
		if e.TTLSeconds != 0 {
			ttl = time.Duration(e.TTLSeconds) * time.Second
		}
		cacheEnabled := true
		if e.Cache != nil {
			cacheEnabled = *e.Cache
		}
		configs = append(configs, EndpointConfig{
			Key:          key,
			Name:         e.Name,
			URL:          e.URL,
			TTL:          ttl,
			CacheEnabled: cacheEnabled,
		})
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].Key < configs[j].Key })
	return configs, nil
}
