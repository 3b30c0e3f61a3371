package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/chbenoit/sbb/host"
)

func main() {
	var debug bool
	var dumpRam bool
	var dumpTokens bool
	var showMult bool
	var fast bool
	var step bool
	var verbose bool

	flag.BoolVar(&debug, "d", false, "print a microcode trace while running")
	flag.BoolVar(&dumpRam, "r", false, "dump RAM contents after the run")
	flag.BoolVar(&dumpTokens, "t", false, "dump the resolved symbol table after assembly")
	flag.BoolVar(&showMult, "m", false, "print the 32-bit result word at 0x500")
	flag.BoolVar(&fast, "f", false, "use the larger tick cap for non-halting programs")
	flag.BoolVar(&step, "s", false, "single-step: print state and wait for Enter between ticks")
	flag.BoolVar(&verbose, "v", false, "verbose logging")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: usage: %v [flags] <source file>", os.Args[0], os.Args[0])
	}

	src, err := os.Open(flag.Arg(0))
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	defer src.Close()

	h := host.New()
	h.Verbose = verbose || debug
	h.Fast = fast

	if err := h.Assemble(src); err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	if dumpTokens {
		fmt.Print(h.DumpTokens())
	}

	if step {
		runStepped(h)
	} else {
		runToCompletion(h)
	}

	if dumpRam {
		fmt.Print(h.DumpRam(0, 0xfff))
	}
	if showMult {
		fmt.Printf("mult result: %d\n", h.MultResult())
	}
}

func runStepped(h *host.Host) {
	in := bufio.NewScanner(os.Stdin)
	for {
		state, err := h.Step()
		if err != nil {
			fmt.Println(state)
			fmt.Println(err)
			return
		}
		fmt.Println(state)
		fmt.Print("step >>> ")
		if !in.Scan() {
			return
		}
	}
}

func runToCompletion(h *host.Host) {
	result, err := h.Run()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	fmt.Printf("ticks: %d, elapsed: %v, rate: %.0f Hz, halted: %v\n",
		result.Ticks, result.Elapsed, result.ClockRate(), result.Halted)
}
