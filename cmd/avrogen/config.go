package main

import (
	"flag"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config drives a generator run. Flags override values read from the file.
type Config struct {
	Dir       string   `yaml:"dir"`
	Recursive bool     `yaml:"recursive"`
	Types     []string `yaml:"types"`
	Out       string   `yaml:"out"`
	Indent    string   `yaml:"indent"`
	Naming    string   `yaml:"naming"`
	// nil derives namespaces from package paths
	Namespace *string `yaml:"namespace"`
	Docs      bool    `yaml:"docs"`
	Strict    bool    `yaml:"strict"`
	Verify    bool    `yaml:"verify"`
	Serve     string  `yaml:"serve"`
	Debug     bool    `yaml:"debug"`
}

func defaultConfig() Config {
	return Config{
		Dir:    ".",
		Indent: "  ",
	}
}

// loadConfig reads a YAML config file over the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config file")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing config file '%v'", path)
	}
	return cfg, nil
}

type flagValues struct {
	config    string
	dir       string
	recursive bool
	types     string
	out       string
	indent    string
	naming    string
	namespace string
	docs      bool
	strict    bool
	verify    bool
	serve     string
	debug     bool
	help      bool
}

func newFlagSet() (*flag.FlagSet, *flagValues) {
	fs := flag.NewFlagSet("avrogen", flag.ContinueOnError)
	v := &flagValues{}

	fs.StringVar(&v.config, "config", "", "path to a YAML config file")
	fs.StringVar(&v.dir, "dir", ".", "directory to parse files from")
	fs.BoolVar(&v.recursive, "recursive", false, "generate schemas for all child packages recursively")
	fs.StringVar(&v.types, "types", "", "comma-separated root type names; all exported structs if empty")
	fs.StringVar(&v.out, "out", "", "output directory; stdout if empty")
	fs.StringVar(&v.indent, "indent", "  ", "JSON indentation; empty for compact output")
	fs.StringVar(&v.naming, "naming", "", "field naming: asis, snake, camel, lowercamel, kebab")
	fs.StringVar(&v.namespace, "namespace", "", "namespace for all named types instead of package paths")
	fs.BoolVar(&v.docs, "docs", false, "emit doc comments")
	fs.BoolVar(&v.strict, "strict", false, "fail on references to records still being generated")
	fs.BoolVar(&v.verify, "verify", false, "parse generated schemas with an Avro parser")
	fs.StringVar(&v.serve, "serve", "", "serve schemas over HTTP on this address instead of writing them")
	fs.BoolVar(&v.debug, "debug", false, "dump descriptor graphs")
	fs.BoolVar(&v.help, "help", false, "print help string and exit")
	return fs, v
}

// apply copies flags that were set explicitly on top of cfg.
func (v *flagValues) apply(fs *flag.FlagSet, cfg *Config) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			cfg.Dir = v.dir
		case "recursive":
			cfg.Recursive = v.recursive
		case "types":
			cfg.Types = splitList(v.types)
		case "out":
			cfg.Out = v.out
		case "indent":
			cfg.Indent = v.indent
		case "naming":
			cfg.Naming = v.naming
		case "namespace":
			ns := v.namespace
			cfg.Namespace = &ns
		case "docs":
			cfg.Docs = v.docs
		case "strict":
			cfg.Strict = v.strict
		case "verify":
			cfg.Verify = v.verify
		case "serve":
			cfg.Serve = v.serve
		case "debug":
			cfg.Debug = v.debug
		}
	})
}

func splitList(s string) []string {
	ret := []string{}
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			ret = append(ret, p)
		}
	}
	return ret
}

// parseConfig parses command-line arguments and merges them with the config
// file they point to.
func parseConfig(args []string) (Config, bool, error) {
	fs, v := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return Config{}, false, err
	}
	if v.help {
		fs.Usage()
		return Config{}, true, nil
	}

	cfg, err := loadConfig(v.config)
	if err != nil {
		return cfg, false, err
	}
	v.apply(fs, &cfg)
	return cfg, false, nil
}
