package rulefile

import "github.com/hashicorp/hcl/v2"

// document is the top level of a rules file.
type document struct {
	Modules  *modulesBlock   `hcl:"modules,block"`
	Excludes []*excludeBlock `hcl:"exclude,block"`
	Rules    []*ruleBlock    `hcl:"rule,block"`
}

type modulesBlock struct {
	Include       []string `hcl:"include,optional"`
	Exclude       []string `hcl:"exclude,optional"`
	ExcludeSystem *bool    `hcl:"exclude_system,optional"`
}

type excludeBlock struct {
	Label  string   `hcl:"name,label"`
	Remain hcl.Body `hcl:",remain"`

	match matchAttrs
}

type ruleBlock struct {
	Label     string   `hcl:"name,label"`
	Contracts string   `hcl:"contracts,optional"`
	As        []string `hcl:"as,optional"`
	Generic   string   `hcl:"generic,optional"`
	Name      string   `hcl:"name,optional"`
	Lifetime  string   `hcl:"lifetime,optional"`
	Remain    hcl.Body `hcl:",remain"`

	match matchAttrs
}

// matchAttrs are the type filters shared by exclude and rule blocks. Every
// attribute set must match.
type matchAttrs struct {
	Type           string `hcl:"type,optional"`
	Implements     string `hcl:"implements,optional"`
	OpenGeneric    string `hcl:"open_generic,optional"`
	Marker         string `hcl:"marker,optional"`
	Suffix         string `hcl:"suffix,optional"`
	Package        string `hcl:"package,optional"`
	SingleContract bool   `hcl:"single_contract,optional"`
	NameConvention bool   `hcl:"name_convention,optional"`
}

func (m matchAttrs) empty() bool { return m == matchAttrs{} }
