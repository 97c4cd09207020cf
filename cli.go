package owl

import "github.com/spf13/pflag"

// FlagSet returns a pflag.FlagSet pre-populated with the flags a host
// binary commonly wants to expose for Display construction (card path,
// config file, XKB rules). The core itself takes no flags (spec §6
// "the core itself has no CLI... beyond respecting XDG_RUNTIME_DIR
// indirectly"); this is a convenience for the embedding host, mirroring
// how the rest of the pack's services build their flag sets.
func FlagSet(name string) (*pflag.FlagSet, *HostFlags) {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	hf := &HostFlags{}
	fs.StringVar(&hf.Card, "card", "/dev/dri/card0", "DRM device node to drive")
	fs.StringVar(&hf.Config, "config", "", "path to an optional TOML config file")
	fs.StringVar(&hf.XKBRules, "xkb-rules", "", "XKB rule set name override")
	return fs, hf
}

// HostFlags holds the values FlagSet binds to.
type HostFlags struct {
	Card     string
	Config   string
	XKBRules string
}

// Options converts parsed flags into Display options.
func (hf *HostFlags) Options() []Option {
	opts := []Option{WithCard(hf.Card)}
	if hf.Config != "" {
		opts = append(opts, WithConfigFile(hf.Config))
	}
	if hf.XKBRules != "" {
		opts = append(opts, WithXKBRules(hf.XKBRules))
	}
	return opts
}
