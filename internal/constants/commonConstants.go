package constants

type (
	APIStatus   string
	CachePrefix string
	RunState    string
)

const (
	APIStatusOk    APIStatus = "success"
	APIStatusError APIStatus = "error"

	CachePrefixFacets CachePrefix = "FACETS_"
)

// Ingestion run states, in the order a run passes through them
const (
	RunStateAuthenticating  RunState = "authenticating"
	RunStateLoadingColorMap RunState = "loading_color_map"
	RunStateClearingStore   RunState = "clearing_store"
	RunStatePartitionLoop   RunState = "partition_loop"
	RunStateDone            RunState = "done"
	RunStateFailed          RunState = "failed"
)

// Ingestion run history statuses
const (
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// APISourceTag marks listings pulled from the live search API
const APISourceTag = "manheim_live_api"

// VINDetailURLFormat links a VIN to its OVE detail page
const VINDetailURLFormat = "https://www.ove.com/search/results#/details/%s/OVE"

// DisplayTimeOffsetHours is the fixed offset applied to auction start times (Dallas, CDT)
const DisplayTimeOffsetHours = -5

// DefaultListingStatus is used when the source supplies no status
const DefaultListingStatus = "Live"

// Query pagination
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)
