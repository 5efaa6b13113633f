package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"memscan/hexdump"
	"memscan/match"
	"memscan/process"
	"memscan/scanner"
	"memscan/value"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-shellwords"
)

// repl executes interactive commands against one session
type repl struct {
	session *scanner.Session
	out     io.Writer
	typ     value.Type // type of the next first scan
	maxList int
	color   bool
}

func newREPL(session *scanner.Session, out io.Writer, typ value.Type, maxList int) *repl {
	if maxList <= 0 {
		maxList = 20
	}
	return &repl{session: session, out: out, typ: typ, maxList: maxList}
}

type replCommand struct {
	name string
	args string
	help string
	fn   func(r *repl, ctx context.Context, args []string) error
}

var replCommands []replCommand

func init() {
	replCommands = []replCommand{
		{"search", "KIND [VALUE]", "search or refine, KIND is a name or operator (= != > < + - += -= ? !)", (*repl).search},
		{"list", "[N]", "print the first N matches", (*repl).list},
		{"set", "INDEX VALUE", "write VALUE to the match at INDEX", (*repl).set},
		{"peek", "INDEX|ADDR [N]", "hex dump N bytes around a match or address", (*repl).peek},
		{"reset", "", "forget all matches, the next search is a first scan", (*repl).reset},
		{"type", "[TYPE]", "show or set the type of the next first scan", (*repl).setType},
		{"pid", "[PID]", "show the attached PID or attach to another process", (*repl).pid},
		{"detach", "", "detach from the target", (*repl).detach},
		{"progress", "", "show how far the last pass got", (*repl).progress},
		{"help", "", "show this help", (*repl).help},
		{"exit", "", "leave memscan", nil},
	}
}

// exec runs one command line. quit is true when the user asked to leave.
func (r *repl) exec(ctx context.Context, line string) (quit bool, err error) {
	args, err := shellwords.Parse(line)
	if err != nil {
		return false, err
	}
	if len(args) == 0 {
		return false, nil
	}

	name := strings.ToLower(args[0])
	if name == "quit" || name == "exit" {
		return true, nil
	}
	for _, c := range replCommands {
		if c.name == name && c.fn != nil {
			return false, c.fn(r, ctx, args[1:])
		}
	}

	// shorthands: "= 100", "changed", or a bare number for "= number"
	if _, err := match.ParseKind(args[0]); err == nil {
		return false, r.search(ctx, args)
	}
	if looksNumeric(args[0]) && len(args) == 1 {
		return false, r.search(ctx, []string{"=", args[0]})
	}
	return false, fmt.Errorf("unknown command %q, type help", args[0])
}

func looksNumeric(s string) bool {
	if _, err := strconv.ParseInt(s, 0, 64); err == nil {
		return true
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func (r *repl) search(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: search KIND [VALUE]")
	}
	kind, err := match.ParseKind(args[0])
	if err != nil {
		return err
	}

	typ := value.Auto
	if !r.session.HasScanned() {
		typ = r.typ
	}
	req := scanner.NewRequest(kind, strings.Join(args[1:], " "), typ)

	n, err := r.session.Search(ctx, req)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(r.out, "search aborted, matches unchanged")
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%s matches\n", humanize.Comma(int64(n)))
	if n > 0 && n <= r.maxList {
		return r.list(ctx, nil)
	}
	return nil
}

func (r *repl) list(_ context.Context, args []string) error {
	limit := r.maxList
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid count %q", args[0])
		}
		limit = n
	}

	results := r.session.Results()
	for i, res := range results {
		if i >= limit {
			fmt.Fprintf(r.out, "... %s more\n", humanize.Comma(int64(len(results)-limit)))
			break
		}
		prev := ""
		if res.Previous.IsValid() {
			prev = " (was " + res.Previous.String() + ")"
		}
		fmt.Fprintf(r.out, "[%d] %s %-7s %s%s\n", res.MatchIndex, res.Address.ToString(), res.Type, res.Value, prev)
	}
	return nil
}

func (r *repl) set(_ context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: set INDEX VALUE")
	}
	index, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid index %q", args[0])
	}

	results := r.session.Results()
	if index < 0 || index >= len(results) {
		return fmt.Errorf("%w: no match %d", scanner.ErrStaleIndex, index)
	}
	res := results[index]

	if err := r.session.SetValue(index, res.Address, strings.Join(args[1:], " ")); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "wrote %s to %s\n", strings.Join(args[1:], " "), res.Address.ToString())
	return nil
}

func (r *repl) peek(_ context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: peek INDEX|ADDR [N]")
	}
	size := 64
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid size %q", args[1])
		}
		size = n
	}

	var (
		addr  process.ProcessMemoryAddress
		width int
	)
	if strings.HasPrefix(strings.ToLower(args[0]), "0x") {
		a, err := process.ParseAddress(args[0])
		if err != nil {
			return err
		}
		addr = a
	} else {
		index, err := strconv.Atoi(args[0])
		results := r.session.Results()
		if err != nil || index < 0 || index >= len(results) {
			return fmt.Errorf("%w: no match %s", scanner.ErrStaleIndex, args[0])
		}
		addr, width = results[index].Address, len(results[index].Raw)
	}

	regions, err := r.session.Regions()
	if err != nil {
		return err
	}
	var region *process.Region
	for i := range regions {
		if regions[i].Contains(addr, 1) {
			region = &regions[i]
			break
		}
	}
	if region == nil {
		return fmt.Errorf("0x%x: %w", uint64(addr), process.ErrAddressNotMapped)
	}

	start, n := hexdump.Window(*region, addr, 16, size)
	data, err := r.session.ReadMemory(start, n)
	if err != nil {
		return err
	}

	opts := hexdump.DefaultOptions()
	opts.Highlight = hexdump.Span{Offset: int(addr - start), Len: width}
	opts.Regions = regions
	opts.Color = r.color
	hexdump.DumpToWriter(r.out, start, data, opts)
	return nil
}

func (r *repl) reset(_ context.Context, _ []string) error {
	if err := r.session.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "matches cleared")
	return nil
}

func (r *repl) setType(_ context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(r.out, "type", r.typ)
		return nil
	}
	t, err := value.ParseType(args[0])
	if err != nil {
		return err
	}
	r.typ = t
	if r.session.HasScanned() {
		fmt.Fprintln(r.out, "type", t, "applies after reset")
	}
	return nil
}

func (r *repl) pid(_ context.Context, args []string) error {
	if len(args) == 0 {
		if !r.session.Attached() {
			return scanner.ErrNotAttached
		}
		fmt.Fprintln(r.out, "pid", r.session.PID())
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid pid %q", args[0])
	}
	if err := r.session.Attach(process.ProcessID(n)); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "attached to", r.session.PID())
	return nil
}

func (r *repl) detach(_ context.Context, _ []string) error {
	if err := r.session.Detach(); err != nil {
		return err
	}
	fmt.Fprintln(r.out, "detached")
	return nil
}

func (r *repl) progress(_ context.Context, _ []string) error {
	fmt.Fprintf(r.out, "%.0f%%\n", r.session.Progress()*100)
	return nil
}

func (r *repl) help(_ context.Context, _ []string) error {
	for _, c := range replCommands {
		fmt.Fprintf(r.out, "  %-8s %-14s %s\n", c.name, c.args, c.help)
	}
	fmt.Fprintln(r.out, "  a bare number searches for that value; = != > < + - changed unchanged any work without \"search\"")
	return nil
}
