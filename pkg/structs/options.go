package structs

import "github.com/convox/treesort/pkg/helpers"

const (
	DebugLength    = 40
	DefaultLength  = 1000000
	DefaultPeers   = "peers.yml"
	DefaultSort    = "bubble"
	DefaultWorkers = 7
)

type SortOptions struct {
	Debug    *bool   `flag:"debug" desc:"sort the 40 element debug sequence"`
	Length   *int    `flag:"length,l" default:"1000000" desc:"number of elements to sort"`
	Limit    *int    `flag:"limit" desc:"largest buffer a worker may allocate, in elements"`
	Metrics  *string `flag:"metrics" desc:"post a run report to this collector url"`
	Print    *bool   `flag:"print,p" desc:"print the sorted sequence"`
	Progress *bool   `flag:"progress" desc:"show a progress bar of reported workers"`
	Sort     *string `flag:"sort,s" default:"bubble" desc:"local sort used by leaf workers"`
	Verbose  *bool   `flag:"verbose,v" desc:"log every worker state change"`
	Verify   *bool   `flag:"verify" desc:"check the result is the sorted seed"`
	Workers  *int    `flag:"workers,n" default:"7" desc:"number of workers, must be odd"`
}

func (o SortOptions) Size() int {
	return length(o.Debug, o.Length)
}

func (o SortOptions) Count() int {
	return helpers.DefaultInt(o.Workers, DefaultWorkers)
}

type WorkerOptions struct {
	Debug   *bool   `flag:"debug" desc:"sort the 40 element debug sequence"`
	Length  *int    `flag:"length,l" default:"1000000" desc:"number of elements to sort"`
	Limit   *int    `flag:"limit" desc:"largest buffer a worker may allocate, in elements"`
	Metrics *string `flag:"metrics" desc:"post a run report to this collector url from rank 0"`
	Peers   *string `flag:"peers" default:"peers.yml" desc:"yaml file listing every worker address by rank"`
	Print   *bool   `flag:"print,p" desc:"print the sorted sequence on rank 0"`
	Rank    *int    `flag:"rank,r" desc:"rank of this worker, defaults to $TREESORT_RANK"`
	Run     *string `flag:"run" desc:"run id shared by every worker, derived from the peers when empty"`
	Sort    *string `flag:"sort,s" default:"bubble" desc:"local sort used by leaf workers"`
	Verbose *bool   `flag:"verbose,v" desc:"log every worker state change"`
}

func (o WorkerOptions) Size() int {
	return length(o.Debug, o.Length)
}

type TopologyOptions struct {
	Debug   *bool `flag:"debug" desc:"plan the 40 element debug sequence"`
	Length  *int  `flag:"length,l" default:"1000000" desc:"number of elements to sort"`
	Workers *int  `flag:"workers,n" default:"7" desc:"number of workers, must be odd"`
}

func (o TopologyOptions) Size() int {
	return length(o.Debug, o.Length)
}

func (o TopologyOptions) Count() int {
	return helpers.DefaultInt(o.Workers, DefaultWorkers)
}

func length(debug *bool, n *int) int {
	if helpers.DefaultBool(debug, false) {
		return DebugLength
	}

	return helpers.DefaultInt(n, DefaultLength)
}
