// Package preprocessor flattens included files into a single statement
// stream and substitutes define aliases.
package preprocessor

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/retroenv/chip8asm/internal/asmerr"
	"github.com/retroenv/chip8asm/internal/ast"
	"github.com/retroenv/chip8asm/internal/loader"
	"github.com/retroenv/chip8asm/internal/parser"
	"github.com/retroenv/retrogolib/log"
	"github.com/retroenv/retrogolib/set"
	"golang.org/x/exp/slices"
)

// Result is the preprocessed program.
type Result struct {
	// Statements contains the flattened statements without includes and
	// defines, all define aliases are substituted.
	Statements []ast.Statement

	// Defines contains all define statements in declaration order, their
	// values have earlier aliases substituted.
	Defines []ast.Statement
}

// Preprocessor expands a primary source file.
type Preprocessor struct {
	logger   *log.Logger
	resolver loader.Resolver

	queued set.Set[string]
}

// pendingFile is a loaded file waiting for expansion together with the
// chain of files that included it.
type pendingFile struct {
	source loader.Source
	chain  []string
}

// New creates a new preprocessor that loads files using the resolver.
func New(logger *log.Logger, resolver loader.Resolver) *Preprocessor {
	return &Preprocessor{
		logger:   logger,
		resolver: resolver,
		queued:   set.New[string](),
	}
}

// Process loads and flattens the primary file and all of its includes.
// The statements of a file are emitted without its includes, which are
// pushed on a stack of pending files. The most recently pushed file is
// expanded next, so the last include of a file comes first and nested
// includes follow the file that included them. Every file is included at
// most once, a file that includes one of its includers is a cycle.
func (p *Preprocessor) Process(primary string) (Result, error) {
	src, err := p.load(primary, ast.Location{File: primary})
	if err != nil {
		return Result{}, err
	}
	p.queued.Add(src.Name)

	stack := []pendingFile{{source: src, chain: []string{src.Name}}}
	var statements []ast.Statement

	for len(stack) > 0 {
		file := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		parsed, err := parser.ParseSource(file.source.Name, file.source.Text)
		if err != nil {
			return Result{}, err
		}

		var includes []ast.Statement
		for _, stmt := range parsed {
			if stmt.Kind == ast.Include {
				includes = append(includes, stmt)
				continue
			}
			statements = append(statements, stmt)
		}

		p.logger.Debug("Expanded source file",
			log.String("file", file.source.Name),
			log.Int("statements", len(parsed)-len(includes)),
			log.Int("includes", len(includes)))

		for _, inc := range includes {
			pending, ok, err := p.include(file, inc)
			if err != nil {
				return Result{}, err
			}
			if ok {
				stack = append(stack, pending)
			}
		}
	}

	return substitute(statements)
}

// include loads the file named by an include statement. It returns false
// if the file was already queued before.
func (p *Preprocessor) include(parent pendingFile, inc ast.Statement) (pendingFile, bool, error) {
	src, err := p.load(inc.Name, inc.Location)
	if err != nil {
		return pendingFile{}, false, err
	}

	if slices.Contains(parent.chain, src.Name) {
		chain := strings.Join(append(slices.Clone(parent.chain), src.Name), " -> ")
		return pendingFile{}, false, asmerr.New(asmerr.ErrIncludeCycle, inc.Location,
			"file '%s' includes itself: %s", src.Name, chain)
	}

	if p.queued.Contains(src.Name) {
		p.logger.Debug("Skipping already included file",
			log.String("file", src.Name),
			log.Stringer("location", inc.Location))
		return pendingFile{}, false, nil
	}
	p.queued.Add(src.Name)

	return pendingFile{
		source: src,
		chain:  append(slices.Clone(parent.chain), src.Name),
	}, true, nil
}

func (p *Preprocessor) load(name string, loc ast.Location) (loader.Source, error) {
	src, err := p.resolver.Resolve(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return loader.Source{}, asmerr.Wrap(asmerr.ErrIncludeNotFound, loc, err, "file '%s' can not be found", name)
		}
		return loader.Source{}, fmt.Errorf("loading file '%s': %w", name, err)
	}
	return src, nil
}

// substitute removes all defines from the statement stream and replaces
// every following operand that names a define alias with its value.
func substitute(statements []ast.Statement) (Result, error) {
	defines := map[string]ast.Statement{}
	result := Result{
		Statements: make([]ast.Statement, 0, len(statements)),
	}

	for _, stmt := range statements {
		if stmt.Kind == ast.Define {
			if existing, ok := defines[stmt.Name]; ok {
				return Result{}, asmerr.New(asmerr.ErrDuplicateSymbol, stmt.Location,
					"define '%s' is already declared at %s", stmt.Name, existing.Location)
			}
			stmt.Value = replace(stmt.Value, defines)
			defines[stmt.Name] = stmt
			result.Defines = append(result.Defines, stmt)
			continue
		}

		result.Statements = append(result.Statements, substituteOperands(stmt, defines))
	}

	return result, nil
}

func substituteOperands(stmt ast.Statement, defines map[string]ast.Statement) ast.Statement {
	var operands []ast.Operand
	for i, op := range stmt.Operands {
		replaced := replace(op, defines)
		if replaced == op {
			continue
		}
		if operands == nil {
			operands = make([]ast.Operand, len(stmt.Operands))
			copy(operands, stmt.Operands)
		}
		operands[i] = replaced
	}

	if operands == nil {
		return stmt
	}
	return stmt.WithOperands(operands)
}

func replace(op ast.Operand, defines map[string]ast.Statement) ast.Operand {
	if op.Kind != ast.SymbolOperand {
		return op
	}
	if def, ok := defines[op.Text]; ok {
		return def.Value
	}
	return op
}
