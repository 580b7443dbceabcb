// prismchrono-sim loads a binary image produced by prismchrono-asm into a
// fresh memory image and single-steps the chip until it halts, a step
// fails with an error other than a serviced trap (traps are logged and
// stepping continues), or a step budget is exhausted. It exists to give the cpu and
// memory packages a runnable front end; nothing here belongs in the core.
package main

import (
	"flag"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang/glog"

	"github.com/prismchrono/prismchrono/cpu"
	"github.com/prismchrono/prismchrono/image"
	"github.com/prismchrono/prismchrono/memory"
)

var (
	memTrytes = flag.Int("mem_trytes", 1<<16, "memory capacity in trytes")
	maxSteps  = flag.Uint64("max_steps", 1_000_000, "abort after this many steps without a HALT")
	dumpState = flag.Bool("dump_state", true, "dump final processor state on exit")
)

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		glog.Fatalf("usage: %s [flags] <image>", os.Args[0])
	}
	imgPath := flag.Args()[0]

	f, err := os.Open(imgPath)
	if err != nil {
		glog.Fatalf("opening %s: %v", imgPath, err)
	}
	records, err := image.Read(f)
	f.Close()
	if err != nil {
		glog.Fatalf("reading %s: %v", imgPath, err)
	}

	mem := memory.New(*memTrytes)
	if err := mem.LoadImage(records); err != nil {
		glog.Fatalf("loading image: %v", err)
	}

	chip, err := cpu.Init(&cpu.ChipDef{Mem: mem})
	if err != nil {
		glog.Fatalf("initializing chip: %v", err)
	}

	var steps uint64
loop:
	for !chip.Halted() {
		if steps >= *maxSteps {
			glog.Fatalf("exceeded %d steps without halting; state: %s", *maxSteps, spew.Sdump(chip.State()))
		}
		switch err := chip.Step(); err.(type) {
		case nil:
		case *cpu.HaltedError:
			break loop
		case *cpu.TrapError:
			glog.Warningf("step %d: %v", steps, err)
		default:
			glog.Fatalf("step %d: %v; state: %s", steps, err, spew.Sdump(chip.State()))
		}
		steps++
	}

	glog.Infof("halted after %d steps", steps)
	if *dumpState {
		spew.Dump(chip.State())
	}
}
