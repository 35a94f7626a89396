// Package profile provides a simple way to generate pprof compatible circuit profiles.
//
// Since circuit configuration and synthesis are not thread safe and operate in a single
// go-routine, this package is also NOT thread safe and is meant to be called in the same
// go-routine.
package profile

import (
	"bytes"
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/consensys/plonkish/logger"
	"github.com/google/pprof/profile"
)

var (
	sessions       []*Profile // active sessions
	activeSessions uint32
)

// Profile represents an active constraint profiling session. Every gate
// polynomial, lookup pair and copy constraint registered while a session is
// active adds one sample, attributed to the circuit code that created it.
type Profile struct {
	// defaults to ./plonkish.pprof
	// if blank, profile is not written to disk
	filePath string

	// actual pprof profile struct
	// details on pprof format: https://github.com/google/pprof/blob/main/proto/README.md
	pprof profile.Profile

	functions map[string]*profile.Function
	locations map[uint64]*profile.Location

	onceSetName sync.Once

	chDone chan struct{}
}

// Option defines configuration Options for Profile.
type Option func(*Profile)

// WithPath controls the profile destination file. If blank, profile is not written.
//
// Defaults to ./plonkish.pprof.
func WithPath(path string) Option {
	return func(p *Profile) {
		p.filePath = path
	}
}

// WithNoOutput indicates that the profile is not going to be written to disk.
//
// This is equivalent to WithPath("")
func WithNoOutput() Option {
	return func(p *Profile) {
		p.filePath = ""
	}
}

// Start creates a new active profiling session. When Stop() is called, this session is removed from
// active profiling sessions and may be serialized to disk as a pprof compatible file (see WithPath option).
//
// All calls to profile.Start() and Stop() are meant to be executed in the same go routine that
// configures and synthesizes the circuit.
//
// It is allowed to create multiple overlapping profiling sessions in one circuit.
func Start(options ...Option) *Profile {

	// start the worker first time a profiling session starts.
	onceInit.Do(func() {
		go worker()
	})

	p := Profile{
		functions: make(map[string]*profile.Function),
		locations: make(map[uint64]*profile.Location),
		filePath:  filepath.Join(".", "plonkish.pprof"),
		chDone:    make(chan struct{}),
	}
	p.pprof.SampleType = []*profile.ValueType{{
		Type: "constraints",
		Unit: "count",
	}}

	for _, option := range options {
		option(&p)
	}

	log := logger.Logger()
	if p.filePath == "" {
		log.Warn().Msg("constraint profiling enabled [not writing to disk]")
	} else {
		log.Info().Str("path", p.filePath).Msg("constraint profiling enabled")
	}

	// add the session to active sessions
	chCommands <- command{p: &p}
	atomic.AddUint32(&activeSessions, 1)

	return &p
}

// Stop removes the profile from active session and may write the pprof file to disk. See WithPath option.
func (p *Profile) Stop() {
	log := logger.Logger()

	if p.chDone == nil {
		log.Fatal().Msg("constraint profile stopped multiple times")
	}

	// ask worker routine to remove ourselves from the active sessions
	chCommands <- command{p: p, remove: true}

	// wait for worker routine to remove us.
	<-p.chDone
	p.chDone = nil

	// if filePath is set, serialize profile to disk in pprof format
	if p.filePath != "" {
		f, err := os.Create(p.filePath)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create constraint profile")
		}
		if err := p.pprof.Write(f); err != nil {
			log.Error().Err(err).Msg("writing profile")
		}
		f.Close()
		log.Info().Str("path", p.filePath).Msg("constraint profiling disabled")
	} else {
		log.Warn().Msg("constraint profiling disabled [not writing to disk]")
	}

}

// NbConstraints return number of collected samples (constraints) by the profile session
func (p *Profile) NbConstraints() int {
	return len(p.pprof.Sample)
}

// Top returns a flat rendering of the profile ordered by self sample count,
// similar to the pprof top command. flat counts the constraints created
// directly by a function, cum includes the functions it called.
func (p *Profile) Top() string {
	total := int64(len(p.pprof.Sample))
	if total == 0 {
		return "no samples\n"
	}

	type node struct {
		fn        *profile.Function
		line      int64
		flat, cum int64
	}
	nodes := make(map[*profile.Function]*node)
	for _, s := range p.pprof.Sample {
		// Location[0] is the sampling leaf. The leaf alone gets the sample in
		// flat; every function on the stack gets it in cum, once even if it
		// shows up several times (recursion).
		seen := make(map[*profile.Function]bool)
		for i, loc := range s.Location {
			for _, ln := range loc.Line {
				nd, ok := nodes[ln.Function]
				if !ok {
					nd = &node{fn: ln.Function, line: ln.Line}
					nodes[ln.Function] = nd
				}
				if i == 0 {
					nd.flat++
				}
				if !seen[ln.Function] {
					seen[ln.Function] = true
					nd.cum++
				}
			}
		}
	}

	sorted := make([]*node, 0, len(nodes))
	for _, nd := range nodes {
		sorted = append(sorted, nd)
	}
	slices.SortFunc(sorted, func(a, b *node) int {
		if c := cmp.Compare(b.flat, a.flat); c != 0 {
			return c
		}
		return cmp.Compare(a.fn.Name, b.fn.Name)
	})

	percent := func(v int64) string {
		return fmt.Sprintf("%.2f%%", float64(v)*100/float64(total))
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Showing nodes accounting for %d, 100%% of %d total\n", total, total)
	fmt.Fprintf(&buf, "      flat  flat%%   sum%%        cum   cum%%\n")
	var sum int64
	for _, nd := range sorted {
		sum += nd.flat
		fmt.Fprintf(&buf, "%10d %6s %6s %10d %6s  %s %s:%d\n",
			nd.flat, percent(nd.flat), percent(sum), nd.cum, percent(nd.cum),
			nd.fn.Name, shortFile(nd.fn.Filename), nd.line)
	}
	return buf.String()
}

func shortFile(path string) string {
	parts := strings.Split(path, "/")
	if len(parts) <= 2 {
		return path
	}
	return strings.Join(parts[len(parts)-2:], "/")
}

// RecordConstraint add a sample (with count == 1) to all the active profiling sessions.
func RecordConstraint() {
	if n := atomic.LoadUint32(&activeSessions); n == 0 {
		return // do nothing, no active session.
	}

	// collect the stack and send it async to the worker
	pc := make([]uintptr, 20)
	n := runtime.Callers(3, pc)
	if n == 0 {
		return
	}
	pc = pc[:n]
	chCommands <- command{pc: pc}
}

func (p *Profile) getLocation(frame *runtime.Frame) *profile.Location {
	l, ok := p.locations[uint64(frame.PC)]
	if !ok {
		// first let's see if we have the function.
		f, ok := p.functions[frame.File+frame.Function]
		if !ok {
			fe := strings.Split(frame.Function, "/")
			fName := fe[len(fe)-1]
			f = &profile.Function{
				ID:         uint64(len(p.functions) + 1),
				Name:       fName,
				SystemName: frame.Function,
				Filename:   frame.File,
			}

			p.functions[frame.File+frame.Function] = f
			p.pprof.Function = append(p.pprof.Function, f)
		}

		l = &profile.Location{
			ID:   uint64(len(p.locations) + 1),
			Line: []profile.Line{{Function: f, Line: int64(frame.Line)}},
		}
		p.locations[uint64(frame.PC)] = l
		p.pprof.Location = append(p.pprof.Location, l)
	}

	return l
}
