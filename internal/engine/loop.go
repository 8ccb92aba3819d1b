package engine

import (
	"fmt"

	"github.com/nrslib/takt/internal/piece"
)

// JudgeVerdict is the loop judge's decision.
type JudgeVerdict string

const (
	JudgeContinue JudgeVerdict = "CONTINUE"
	JudgeAbort    JudgeVerdict = "ABORT"
)

// judgeMovementName builds the out-of-band judge movement's name for
// monitor index i: "_loop_judge_<monitor-index>".
func judgeMovementName(i int) string {
	return fmt.Sprintf("_loop_judge_%d", i)
}

// detectLoop scans history for a loop monitor whose cycle pattern has
// repeated at least threshold times, contiguously, at the very tail of
// history. Returns the first matching monitor's index, or -1.
func detectLoop(history []string, monitors []piece.LoopMonitor) int {
	for i, mon := range monitors {
		if repeatCountAtTail(history, mon.Cycle) >= mon.Threshold {
			return i
		}
	}
	return -1
}

// repeatCountAtTail counts how many consecutive, contiguous repetitions of
// cycle appear ending exactly at the last element of history.
func repeatCountAtTail(history, cycle []string) int {
	if len(cycle) == 0 || len(history) < len(cycle) {
		return 0
	}
	count := 0
	for {
		start := len(history) - (count+1)*len(cycle)
		if start < 0 {
			break
		}
		if !equalTail(history[start:start+len(cycle)], cycle) {
			break
		}
		count++
	}
	return count
}

func equalTail(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
