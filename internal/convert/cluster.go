package convert

import (
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
)

type clusterHealthOptions struct {
	Level                       string        `mapstructure:"level"`
	Local                       *bool         `mapstructure:"local"`
	ExpandWildcards             string        `mapstructure:"expand_wildcards"`
	Timeout                     time.Duration `mapstructure:"timeout"`
	MasterTimeout               time.Duration `mapstructure:"master_timeout"`
	WaitForStatus               string        `mapstructure:"wait_for_status"`
	WaitForNodes                string        `mapstructure:"wait_for_nodes"`
	WaitForEvents               string        `mapstructure:"wait_for_events"`
	WaitForActiveShards         string        `mapstructure:"wait_for_active_shards"`
	WaitForNoRelocatingShards   *bool         `mapstructure:"wait_for_no_relocating_shards"`
	WaitForNoInitializingShards *bool         `mapstructure:"wait_for_no_initializing_shards"`
}

// ClusterHealthRequest converts a cluster health check, optionally scoped to indices.
func ClusterHealthRequest(indices []string, opts map[string]any) (*esapi.ClusterHealthRequest, error) {
	var o clusterHealthOptions
	if err := decodeOptions("cluster_health", opts, &o, true); err != nil {
		return nil, err
	}
	return &esapi.ClusterHealthRequest{
		Index:                       indices,
		ExpandWildcards:             o.ExpandWildcards,
		Level:                       o.Level,
		Local:                       o.Local,
		MasterTimeout:               o.MasterTimeout,
		Timeout:                     o.Timeout,
		WaitForActiveShards:         o.WaitForActiveShards,
		WaitForEvents:               o.WaitForEvents,
		WaitForNoInitializingShards: o.WaitForNoInitializingShards,
		WaitForNoRelocatingShards:   o.WaitForNoRelocatingShards,
		WaitForNodes:                o.WaitForNodes,
		WaitForStatus:               o.WaitForStatus,
	}, nil
}
