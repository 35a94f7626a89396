package profile

import (
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"unicode"

	"github.com/google/pprof/profile"
)

// since we are assuming usage of this package from a single go routine, this channel only has
// one "producer", and one "consumer". it's purpose is to guarantee the order of execution of
// adding / removing a profiling session and sampling events, while enabling the caller
// to sample the events asynchronously.
var chCommands = make(chan command, 100)
var onceInit sync.Once

type command struct {
	p      *Profile
	pc     []uintptr
	remove bool
}

func worker() {
	for c := range chCommands {
		if c.p != nil {
			if c.remove {
				for i := 0; i < len(sessions); i++ {
					if sessions[i] == c.p {
						sessions[i] = sessions[len(sessions)-1]
						sessions = sessions[:len(sessions)-1]
						break
					}
				}
				close(c.p.chDone)

				// decrement active sessions
				atomic.AddUint32(&activeSessions, ^uint32(0))
			} else {
				sessions = append(sessions, c.p)
			}
			continue
		}

		// it's a sampling of an event (constraint)
		collectSample(c.pc)
	}

}

const frontendPkg = "github.com/consensys/plonkish/frontend."

// collectSample must be called from the worker go routine
func collectSample(pc []uintptr) {
	// for each session we may have a distinct sample, since ids of functions and locations may mismatch
	samples := make([]*profile.Sample, len(sessions))
	for i := range samples {
		samples[i] = &profile.Sample{Value: []int64{1}} // for now, we just collect new constraints count
	}

	frames := runtime.CallersFrames(pc)
	// Loop to get frames.
	// A fixed number of pcs can expand to an indefinite number of Frames.
	for {
		frame, more := frames.Next()

		// filter the registration plumbing between the circuit code and the
		// sampling point
		if filterInternalFrame(frame.Function) {
			if !more {
				break
			}
			continue
		}

		if strings.HasPrefix(frame.Function, frontendPkg) {
			// an exported frontend entry point: everything below is the
			// caller of Configure/Synthesize, not circuit code
			break
		}

		if strings.Contains(frame.Function, ".func") {
			// region assignments run in closures; attribute their
			// constraints to the enclosing method
			if !more {
				break
			}
			continue
		}

		frame.Function = strings.ReplaceAll(frame.Function, "[...]", "[T]")

		for i := range samples {
			samples[i].Location = append(samples[i].Location, sessions[i].getLocation(&frame))
		}

		if !more {
			break
		}
		if strings.HasSuffix(frame.Function, ".Configure") || strings.HasSuffix(frame.Function, ".Synthesize") {
			for i := range sessions {
				sessions[i].onceSetName.Do(func() {
					// once per profile session, we set the "name of the binary"
					// here we grep the struct name where Configure/Synthesize
					// exist: hopefully the circuit name
					fe := strings.Split(frame.Function, "/")
					circuitName := strings.TrimSuffix(fe[len(fe)-1], ".Configure")
					circuitName = strings.TrimSuffix(circuitName, ".Synthesize")
					sessions[i].pprof.Mapping = []*profile.Mapping{
						{ID: 1, File: circuitName},
					}
				})
			}
		}
	}

	for i := range sessions {
		sessions[i].pprof.Sample = append(sessions[i].pprof.Sample, samples[i])
	}
}

func filterInternalFrame(f string) bool {
	// constraint registration and witness grid plumbing
	if strings.HasPrefix(f, "github.com/consensys/plonkish/constraint.") ||
		strings.HasPrefix(f, "github.com/consensys/plonkish/witness.") {
		return true
	}
	return filterFrontendPrivateFunc(f)
}

func filterFrontendPrivateFunc(f string) bool {
	rest, ok := strings.CutPrefix(f, frontendPkg)
	if !ok || rest == "" {
		return false
	}
	if strings.HasPrefix(rest, "(*ShapeAssignment") {
		// assignment plumbing; exported only for the shape API
		return true
	}
	// layouter and planner internals
	rest = strings.TrimPrefix(rest, "(*")
	return unicode.IsLower([]rune(rest)[0])
}
