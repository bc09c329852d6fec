// Copyright 2026 The OpenNV Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// nvqdump decodes captured pushbuffer streams and GPFIFO entries into a
// human-readable method listing.
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/google/subcommands"
	"github.com/opennv/opennv/pkg/abi/nvgpu"
	"github.com/opennv/opennv/pkg/cmdqueue"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(new(decodeCmd), "")
	subcommands.Register(new(entryCmd), "")

	flag.Parse()
	os.Exit(int(subcommands.Execute(context.Background())))
}

// decodeCmd implements subcommands.Command for the "decode" command.
type decodeCmd struct {
	offset int
	raw    bool
}

// Name implements subcommands.Command.
func (*decodeCmd) Name() string {
	return "decode"
}

// Synopsis implements subcommands.Command.
func (*decodeCmd) Synopsis() string {
	return "decodes a raw little-endian pushbuffer dump"
}

// Usage implements subcommands.Command.
func (*decodeCmd) Usage() string {
	return `decode [flags] <dump file>`
}

// SetFlags implements subcommands.Command.
func (d *decodeCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&d.offset, "offset", 0, "byte offset of the segment within the dump.")
	f.BoolVar(&d.raw, "raw", false, "also print each word in hex.")
}

// Execute implements subcommands.Command.Execute.
func (d *decodeCmd) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	data, err := os.ReadFile(f.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading dump: %v\n", err)
		return subcommands.ExitFailure
	}
	if d.offset < 0 || d.offset%4 != 0 || d.offset > len(data) {
		fmt.Fprintf(os.Stderr, "error: offset %d not a word offset into a %d-byte dump\n", d.offset, len(data))
		return subcommands.ExitUsageError
	}
	data = data[d.offset:]
	if len(data)%4 != 0 {
		fmt.Fprintf(os.Stderr, "warning: dump length %d not word aligned, ignoring trailing bytes\n", len(data))
	}
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}

	i := 0
	err = cmdqueue.DecodeStream(words, func(f cmdqueue.MethodFields, args []uint32) error {
		printMethod(i, words[i], f, args, d.raw)
		i += 1 + len(args)
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

func printMethod(i int, word uint32, f cmdqueue.MethodFields, args []uint32, raw bool) {
	if raw {
		fmt.Printf("%08x  ", word)
	}
	fmt.Printf("[%4d] %s subch %d %s(%#x)", i, secOpName(f.SecOp), f.Subchannel, methodName(f.Subchannel, f.Offset), f.Offset)
	if f.SecOp == nvgpu.SecOpImmdData {
		fmt.Printf(" = %#x", f.Count)
	}
	fmt.Println()
	for j, a := range args {
		if raw {
			fmt.Printf("%08x  ", a)
		}
		fmt.Printf("       arg[%d] = %#x\n", j, a)
	}
}

func secOpName(secOp uint32) string {
	switch secOp {
	case nvgpu.SecOpGrp0UseTert, nvgpu.SecOpGrp2UseTert:
		return "USE_TERT"
	case nvgpu.SecOpIncMethod:
		return "INC"
	case nvgpu.SecOpNonIncMethod:
		return "NON_INC"
	case nvgpu.SecOpImmdData:
		return "IMMD"
	case nvgpu.SecOpOneInc:
		return "ONE_INC"
	case nvgpu.SecOpEndPBSegment:
		return "END_PB_SEGMENT"
	default:
		return fmt.Sprintf("SECOP_%d", secOp)
	}
}

// methodName names the method offsets the queue emits; anything else prints
// as its offset only.
func methodName(subchannel, offset uint32) string {
	switch subchannel {
	case nvgpu.SubchannelHost:
		switch offset {
		case nvgpu.NV_SET_OBJECT:
			return "SET_OBJECT"
		case nvgpu.NVC56F_SEM_ADDR_LO:
			return "SEM_ADDR_LO"
		case nvgpu.NVC56F_SEM_ADDR_HI:
			return "SEM_ADDR_HI"
		case nvgpu.NVC56F_SEM_PAYLOAD_LO:
			return "SEM_PAYLOAD_LO"
		case nvgpu.NVC56F_SEM_PAYLOAD_HI:
			return "SEM_PAYLOAD_HI"
		case nvgpu.NVC56F_SEM_EXECUTE:
			return "SEM_EXECUTE"
		}
	case nvgpu.SubchannelCompute:
		switch offset {
		case nvgpu.NVC6C0_SET_OBJECT:
			return "SET_OBJECT"
		case nvgpu.NVC6C0_NO_OPERATION:
			return "NO_OPERATION"
		case nvgpu.NVC6C0_SET_REPORT_SEMAPHORE_A:
			return "SET_REPORT_SEMAPHORE_A"
		case nvgpu.NVC6C0_SET_REPORT_SEMAPHORE_B:
			return "SET_REPORT_SEMAPHORE_B"
		case nvgpu.NVC6C0_SET_REPORT_SEMAPHORE_C:
			return "SET_REPORT_SEMAPHORE_C"
		case nvgpu.NVC6C0_SET_REPORT_SEMAPHORE_D:
			return "SET_REPORT_SEMAPHORE_D"
		}
	case nvgpu.SubchannelCopy:
		switch offset {
		case nvgpu.NVC6B5_SET_OBJECT:
			return "SET_OBJECT"
		case nvgpu.NVC6B5_SET_SEMAPHORE_A:
			return "SET_SEMAPHORE_A"
		case nvgpu.NVC6B5_SET_SEMAPHORE_B:
			return "SET_SEMAPHORE_B"
		case nvgpu.NVC6B5_SET_SEMAPHORE_PAYLOAD:
			return "SET_SEMAPHORE_PAYLOAD"
		case nvgpu.NVC6B5_LAUNCH_DMA:
			return "LAUNCH_DMA"
		case nvgpu.NVC6B5_OFFSET_IN_UPPER:
			return "OFFSET_IN_UPPER"
		case nvgpu.NVC6B5_OFFSET_IN_LOWER:
			return "OFFSET_IN_LOWER"
		case nvgpu.NVC6B5_OFFSET_OUT_UPPER:
			return "OFFSET_OUT_UPPER"
		case nvgpu.NVC6B5_OFFSET_OUT_LOWER:
			return "OFFSET_OUT_LOWER"
		case nvgpu.NVC6B5_LINE_LENGTH_IN:
			return "LINE_LENGTH_IN"
		}
	}
	return "METHOD"
}

// entryCmd implements subcommands.Command for the "entry" command.
type entryCmd struct{}

// Name implements subcommands.Command.
func (*entryCmd) Name() string {
	return "entry"
}

// Synopsis implements subcommands.Command.
func (*entryCmd) Synopsis() string {
	return "decodes 64-bit GPFIFO entry values"
}

// Usage implements subcommands.Command.
func (*entryCmd) Usage() string {
	return `entry <value>...`
}

// SetFlags implements subcommands.Command.
func (*entryCmd) SetFlags(*flag.FlagSet) {}

// Execute implements subcommands.Command.Execute.
func (*entryCmd) Execute(_ context.Context, f *flag.FlagSet, args ...any) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	for _, arg := range f.Args() {
		entry, err := strconv.ParseUint(arg, 0, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %q: %v\n", arg, err)
			return subcommands.ExitUsageError
		}
		va := entry & (1<<(nvgpu.GPEntry1GetHiShift+nvgpu.GPEntry1GetHiBits) - 1) &^ 3
		length := entry >> nvgpu.GPEntry1LengthShift & (1<<nvgpu.GPEntry1LengthBits - 1)
		level := entry >> nvgpu.GPEntry1LevelShift & 1
		fmt.Printf("%#016x: va %#x, %d words, level %d\n", entry, va, length, level)
	}
	return subcommands.ExitSuccess
}
