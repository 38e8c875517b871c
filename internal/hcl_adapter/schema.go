package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Resolver *ResolverBlock `hcl:"resolver,block"`
	Tools    []*ToolBlock   `hcl:"tool,block"`
	Remain   hcl.Body       `hcl:",remain"`
}

// ResolverBlock is the HCL schema of the `resolver` block.
type ResolverBlock struct {
	Mode       *string  `hcl:"mode,optional"`
	SearchDirs []string `hcl:"search_dirs,optional"`
	Skip       []string `hcl:"skip,optional"`
}

// ToolBlock is the HCL schema of a `tool "<plugin>"` block.
type ToolBlock struct {
	Plugin   string         `hcl:",label"`
	Kind     hcl.Expression `hcl:"kind"`
	Name     *string        `hcl:"name,optional"`
	Boundary hcl.Expression `hcl:"boundary,optional"`
}
