// features.go - Build/feature information helper

/*
features.go - prints version and compiled-feature information, trimmed
from the teacher's features.go to the feature set this module actually
has (no per-CPU-architecture feature matrix, since only RV32IMF exists
here).
*/

package main

import (
	"fmt"
	"runtime"
)

const funriscVersion = "0.1.0"

func printFeatures() {
	fmt.Printf("FunRisc %s\n", funriscVersion)
	fmt.Printf("  Go: %s (%s/%s)\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Println("  ISA: RV32IMF (Zicsr, WFI, MRET, AMO)")
	fmt.Println("  Harts: 2")
	fmt.Println("  Peripherals: debug, gpu, dspdma, interrupt-bus, hart1-controller, sound, mtimer, mathaccel, cartloader, input")
}
