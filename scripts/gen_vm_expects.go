// Command gen_vm_expects derives curried forms of the vmTestCase builder
// methods, so that sets of expectations may be shared through
// vmTestCase.apply; its output is formatted by goimports.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/context"
	"golang.org/x/sync/errgroup"
)

var (
	pkgName  = flag.String("package", "gotape", "package name of the generated file")
	recvType = flag.String("type", "vmTestCase", "builder type whose methods are curried")
	timeout  = flag.Duration("timeout", 5*time.Second, "time limit for generating and formatting")
)

func main() {
	flag.Parse()
	args := flag.Args()
	if len(args) != 2 {
		log.Fatalf("usage: gen_vm_expects [flags] -- SOURCE.go OUTPUT.go")
	}
	srcName, outName := args[0], args[1]

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	methods, err := builderMethods(srcName, *recvType)
	if err != nil {
		log.Fatalln(err)
	}

	out, err := os.Create(outName)
	if err != nil {
		log.Fatalf("failed to create %v: %v", outName, err)
	}

	pr, pw := io.Pipe()
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		defer out.Close()
		goimports := exec.CommandContext(ctx, "goimports")
		goimports.Stdin = pr
		goimports.Stdout = out
		goimports.Stderr = os.Stderr
		if err := goimports.Run(); err != nil {
			return fmt.Errorf("goimports failed: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		err := writeCurried(pw, srcName, outName, methods)
		pw.CloseWithError(err)
		return err
	})

	if err := eg.Wait(); err != nil {
		log.Fatalln(err)
	}
}

type method struct {
	name   string // e.g. expectOutput
	curry  string // e.g. expectVMOutput
	params string
	args   string
}

// builderMethods returns every with* or expect* method of recv, declared in
// the named file, that takes arguments and returns recv.
func builderMethods(srcName, recv string) ([]method, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, srcName, nil, 0)
	if err != nil {
		return nil, err
	}

	var methods []method
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Recv == nil || len(fn.Type.Params.List) == 0 {
			continue
		}
		if exprString(fset, fn.Recv.List[0].Type) != recv {
			continue
		}
		if res := fn.Type.Results; res == nil || len(res.List) != 1 || exprString(fset, res.List[0].Type) != recv {
			continue
		}

		var base string
		for _, prefix := range []string{"with", "expect"} {
			if strings.HasPrefix(fn.Name.Name, prefix) {
				base = prefix
			}
		}
		if base == "" {
			continue
		}

		var params, args []string
		for _, field := range fn.Type.Params.List {
			typ := exprString(fset, field.Type)
			_, variadic := field.Type.(*ast.Ellipsis)
			for _, name := range field.Names {
				params = append(params, name.Name+" "+typ)
				if variadic {
					args = append(args, name.Name+"...")
				} else {
					args = append(args, name.Name)
				}
			}
		}

		methods = append(methods, method{
			name:   fn.Name.Name,
			curry:  base + "VM" + strings.TrimPrefix(fn.Name.Name, base),
			params: strings.Join(params, ", "),
			args:   strings.Join(args, ", "),
		})
	}
	return methods, nil
}

func exprString(fset *token.FileSet, expr ast.Expr) string {
	var buf bytes.Buffer
	printer.Fprint(&buf, fset, expr)
	return buf.String()
}

func writeCurried(w io.Writer, srcName, outName string, methods []method) error {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "package %v\n\n", *pkgName)
	fmt.Fprintf(&buf, "// @generated from %v\n\n", filepath.Base(srcName))
	fmt.Fprintf(&buf, "//go:generate go run scripts/gen_vm_expects.go -package %v -- %v %v\n",
		*pkgName, filepath.Base(srcName), filepath.Base(outName))
	for _, m := range methods {
		fmt.Fprintf(&buf, "\nfunc %v(%v) func(%v) %v {\n", m.curry, m.params, *recvType, *recvType)
		fmt.Fprintf(&buf, "\treturn func(vmt %v) %v {\n", *recvType, *recvType)
		fmt.Fprintf(&buf, "\t\treturn vmt.%v(%v)\n", m.name, m.args)
		fmt.Fprintf(&buf, "\t}\n}\n")
	}
	_, err := buf.WriteTo(w)
	return err
}
