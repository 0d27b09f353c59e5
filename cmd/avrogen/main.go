package main

import (
	"context"
	"fmt"
	"go/types"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/pkg/errors"
	"github.com/ryboe/q"
	"github.com/utrack/avrogen/avroschema"
	"github.com/utrack/avrogen/schemasvc"
	"github.com/utrack/avrogen/typedesc"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/go/packages"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if err := run(os.Args[1:], os.Stdout, logger); err != nil {
		logger.Error("avrogen failed", "error", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer, logger *slog.Logger) error {
	cfg, help, err := parseConfig(args)
	if err != nil || help {
		return err
	}
	if cfg.Debug {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	naming, err := typedesc.ParseNaming(cfg.Naming)
	if err != nil {
		return err
	}

	pkgs, err := loadPackages(cfg.Dir, cfg.Recursive)
	if err != nil {
		return err
	}
	logger.Debug("packages loaded", "count", len(pkgs), "dir", cfg.Dir)

	roots, err := newBuilder(pkgs, naming, cfg.Namespace).roots(pkgs, cfg.Types)
	if err != nil {
		return err
	}
	if len(roots) == 0 {
		return errors.Errorf("no root types found in '%v'", cfg.Dir)
	}
	if cfg.Debug {
		dumpDescriptors(roots)
	}

	opts := []avroschema.Option{avroschema.WithIndent(cfg.Indent)}
	if cfg.Docs {
		opts = append(opts, avroschema.WithDocs())
	}
	if cfg.Strict {
		opts = append(opts, avroschema.WithStrictCycles())
	}
	c := avroschema.New(opts...)

	if cfg.Serve != "" {
		return serve(cfg.Serve, c, roots, logger)
	}

	outs, err := generate(c, roots, cfg.Verify, opts)
	if err != nil {
		return err
	}
	return writeOutputs(outs, cfg.Out, stdout, logger)
}

func loadPackages(dir string, recursive bool) ([]*packages.Package, error) {
	pcfg := packages.Config{
		Mode: packages.NeedTypesInfo |
			packages.NeedSyntax |
			packages.NeedName |
			packages.NeedDeps |
			packages.NeedTypes |
			packages.NeedModule,
		Dir: dir,
	}
	parsePath := "."
	if recursive {
		parsePath = "./..."
	}
	pkgs, err := packages.Load(&pcfg, parsePath)
	if err != nil {
		return nil, errors.Wrap(err, "loading packages")
	}
	for _, p := range pkgs {
		if len(p.Errors) > 0 {
			return nil, errors.Errorf("package '%v' has errors: %v", p.PkgPath, p.Errors[0])
		}
	}
	if len(pkgs) == 0 {
		return nil, errors.Errorf("no packages found in '%v'", dir)
	}
	return pkgs, nil
}

type rootType struct {
	name string
	desc typedesc.Descriptor
}

// roots builds descriptors of the requested type names, or of every
// exported non-generic struct when none are requested.
func (b *builder) roots(pkgs []*packages.Package, names []string) ([]rootType, error) {
	all := len(names) == 0
	want := map[string]bool{}
	for _, n := range names {
		want[n] = true
	}

	ret := []rootType{}
	for _, pkg := range pkgs {
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			obj, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || obj.IsAlias() {
				continue
			}
			namedT, ok := obj.Type().(*types.Named)
			if !ok || namedT.TypeParams().Len() > 0 {
				continue
			}
			if !all {
				if !want[name] {
					continue
				}
				delete(want, name)
			} else {
				if !obj.Exported() {
					continue
				}
				if _, ok := namedT.Underlying().(*types.Struct); !ok {
					continue
				}
			}

			d, err := b.getTypeDescCached(namedT)
			if err != nil {
				return nil, errors.Wrapf(err, "describing '%v.%v'", pkg.PkgPath, name)
			}
			ret = append(ret, rootType{name: name, desc: d})
		}
	}
	for n := range want {
		return nil, errors.Errorf("type '%v' not found", n)
	}
	return ret, nil
}

func dumpDescriptors(roots []rootType) {
	for _, r := range roots {
		ids := []string{}
		typedesc.Walk(r.desc, func(d typedesc.Descriptor) {
			ids = append(ids, d.TypeID())
		})
		q.Q(r.name, ids)
	}
}

type output struct {
	name   string
	schema []byte
}

func generate(c *avroschema.Compiler, roots []rootType, verify bool, opts []avroschema.Option) ([]output, error) {
	outs := make([]output, len(roots))

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for i, r := range roots {
		eg.Go(func() error {
			n, err := c.Compile(r.desc)
			if err != nil {
				return errors.Wrapf(err, "compiling '%v'", r.name)
			}
			buf, err := avroschema.Render(n, opts...)
			if err != nil {
				return errors.Wrapf(err, "rendering '%v'", r.name)
			}
			if verify {
				if err := avroschema.Verify(buf); err != nil {
					return errors.Wrapf(err, "verifying '%v'", r.name)
				}
			}
			outs[i] = output{name: r.name, schema: buf}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return outs, nil
}

func writeOutputs(outs []output, dir string, stdout io.Writer, logger *slog.Logger) error {
	if dir == "" {
		for _, o := range outs {
			if _, err := fmt.Fprintf(stdout, "%s\n", o.schema); err != nil {
				return errors.Wrap(err, "writing to stdout")
			}
		}
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "creating output dir")
	}
	for _, o := range outs {
		path := filepath.Join(dir, strcase.ToSnake(o.name)+".avsc")
		if err := os.WriteFile(path, append(o.schema, '\n'), 0o644); err != nil {
			return errors.Wrapf(err, "when writing a file '%v'", path)
		}
		logger.Info("schema written", "type", o.name, "path", path)
	}
	return nil
}

func serve(addr string, c *avroschema.Compiler, roots []rootType, logger *slog.Logger) error {
	svc := schemasvc.New(c, schemasvc.WithLogger(logger))
	for _, r := range roots {
		if err := svc.Register(r.desc); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           svc.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var eg errgroup.Group
	eg.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	})

	logger.Info("serving schemas", "addr", addr, "types", len(roots))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		stop()
		_ = eg.Wait()
		return errors.Wrap(err, "serving")
	}
	return eg.Wait()
}
