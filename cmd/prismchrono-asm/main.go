// prismchrono-asm assembles a PrismChrono source file into a binary image
// file consumable by prismchrono-sim. It is deliberately thin: all of the
// interesting work (lexing, parsing, the two-pass assembly) lives in the
// asm package; this is just flag handling and file I/O around it.
package main

import (
	"flag"
	"io/ioutil"
	"os"

	"github.com/golang/glog"

	"github.com/prismchrono/prismchrono/asm"
	"github.com/prismchrono/prismchrono/image"
)

var outPath = flag.String("out", "", "output image path (default: input path with .img appended)")

func main() {
	flag.Parse()
	if len(flag.Args()) != 1 {
		glog.Fatalf("usage: %s [--out=path] <source.pta>", os.Args[0])
	}
	srcPath := flag.Args()[0]

	src, err := ioutil.ReadFile(srcPath)
	if err != nil {
		glog.Fatalf("reading %s: %v", srcPath, err)
	}

	records, err := asm.Assemble(string(src))
	if err != nil {
		glog.Fatalf("assembling %s: %v", srcPath, err)
	}
	glog.Infof("assembled %s: %d records", srcPath, len(records))

	dst := *outPath
	if dst == "" {
		dst = srcPath + ".img"
	}
	f, err := os.Create(dst)
	if err != nil {
		glog.Fatalf("creating %s: %v", dst, err)
	}
	defer f.Close()

	if err := image.Write(f, records); err != nil {
		glog.Fatalf("writing %s: %v", dst, err)
	}
	glog.Infof("wrote %s", dst)
}
