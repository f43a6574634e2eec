package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/beevik/goz80/cpu"
)

func decode(program ...byte) (cpu.Instruction, error) {
	m := cpu.NewMemory()
	Expect(m.LoadProgram(program)).To(Succeed())
	return cpu.Decode(&cpu.ProgramCursor{Mem: m}, 0)
}

func mustDecode(program ...byte) cpu.Instruction {
	inst, err := decode(program...)
	Expect(err).NotTo(HaveOccurred())
	return inst
}

var _ = Describe("Decoder", func() {
	Describe("Primary opcodes", func() {
		// LD D,E -> 0x53
		It("should decode LD r,r'", func() {
			inst := mustDecode(0x53)

			Expect(inst.Op).To(Equal(cpu.OpLD))
			Expect(inst.Length).To(Equal(byte(1)))
			Expect(inst.Dst.Mode).To(Equal(cpu.ModeReg))
			Expect(inst.Dst.Reg).To(Equal(cpu.RegD))
			Expect(inst.Src.Reg).To(Equal(cpu.RegE))
		})

		It("should decode LD A,n", func() {
			inst := mustDecode(0x3e, 0x42)

			Expect(inst.Op).To(Equal(cpu.OpLD))
			Expect(inst.Length).To(Equal(byte(2)))
			Expect(inst.Src.Mode).To(Equal(cpu.ModeImm8))
			Expect(inst.Src.Value).To(Equal(uint16(0x42)))
		})

		It("should decode LD r,(HL) and LD (HL),r before LD r,r'", func() {
			inst := mustDecode(0x7e)
			Expect(inst.Dst.Reg).To(Equal(cpu.RegA))
			Expect(inst.Src.Mode).To(Equal(cpu.ModeInd))
			Expect(inst.Src.Pair).To(Equal(cpu.PairHL))

			inst = mustDecode(0x70)
			Expect(inst.Dst.Mode).To(Equal(cpu.ModeInd))
			Expect(inst.Src.Reg).To(Equal(cpu.RegB))
		})

		It("should decode 0x76 as HALT", func() {
			Expect(mustDecode(0x76).Op).To(Equal(cpu.OpHALT))
		})

		It("should decode LD dd,nn little-endian", func() {
			inst := mustDecode(0x31, 0x00, 0xe4)

			Expect(inst.Op).To(Equal(cpu.OpLD16))
			Expect(inst.Dst.Pair).To(Equal(cpu.PairSP))
			Expect(inst.Src.Value).To(Equal(uint16(0xe400)))
			Expect(inst.Length).To(Equal(byte(3)))
		})

		It("should decode PUSH AF and POP HL", func() {
			inst := mustDecode(0xf5)
			Expect(inst.Op).To(Equal(cpu.OpPUSH))
			Expect(inst.Src.Pair).To(Equal(cpu.PairAF))

			inst = mustDecode(0xe1)
			Expect(inst.Op).To(Equal(cpu.OpPOP))
			Expect(inst.Dst.Pair).To(Equal(cpu.PairHL))
		})

		It("should decode conditional jumps, calls and returns", func() {
			inst := mustDecode(0xfa, 0x34, 0x12)
			Expect(inst.Op).To(Equal(cpu.OpJP))
			Expect(inst.HasCond).To(BeTrue())
			Expect(inst.Cond).To(Equal(cpu.CondM))
			Expect(inst.Src.Value).To(Equal(uint16(0x1234)))

			inst = mustDecode(0xec, 0x00, 0x10)
			Expect(inst.Op).To(Equal(cpu.OpCALL))
			Expect(inst.Cond).To(Equal(cpu.CondPE))

			inst = mustDecode(0xd0)
			Expect(inst.Op).To(Equal(cpu.OpRET))
			Expect(inst.Cond).To(Equal(cpu.CondNC))

			inst = mustDecode(0xc9)
			Expect(inst.HasCond).To(BeFalse())
		})

		It("should always consume the JR displacement", func() {
			for _, op := range []byte{0x18, 0x20, 0x28, 0x30, 0x38, 0x10} {
				inst := mustDecode(op, 0xfe)
				Expect(inst.Length).To(Equal(byte(2)))
				Expect(inst.Src.Disp).To(Equal(int8(-2)))
			}
			Expect(mustDecode(0x38, 0x00).Cond).To(Equal(cpu.CondC))
			Expect(mustDecode(0x10, 0x00).Op).To(Equal(cpu.OpDJNZ))
		})

		It("should decode ADD A,(HL) and SUB n", func() {
			inst := mustDecode(0x86)
			Expect(inst.Op).To(Equal(cpu.OpADD))
			Expect(inst.Src.Mode).To(Equal(cpu.ModeInd))

			inst = mustDecode(0xd6, 0x10)
			Expect(inst.Op).To(Equal(cpu.OpSUB))
			Expect(inst.Src.Value).To(Equal(uint16(0x10)))
		})

		It("should report unrecognized opcodes after consuming one byte", func() {
			inst, err := decode(0x07, 0x00)

			var unrec *cpu.UnrecognizedOpcodeError
			Expect(err).To(BeAssignableToTypeOf(unrec))
			Expect(inst.Length).To(Equal(byte(1)))
		})

		It("should pass program range errors through", func() {
			_, err := decode(0xc3, 0x00)
			Expect(err).To(BeAssignableToTypeOf(&cpu.OutOfRangeError{}))
		})
	})

	Describe("Prefixed opcodes", func() {
		It("should decode BIT, RES and SET", func() {
			inst := mustDecode(0xcb, 0x5f)
			Expect(inst.Op).To(Equal(cpu.OpBIT))
			Expect(inst.Bit).To(Equal(byte(3)))
			Expect(inst.Dst.Reg).To(Equal(cpu.RegA))

			inst = mustDecode(0xcb, 0x86)
			Expect(inst.Op).To(Equal(cpu.OpRES))
			Expect(inst.Dst.Mode).To(Equal(cpu.ModeInd))

			Expect(mustDecode(0xcb, 0xff).Op).To(Equal(cpu.OpSET))
		})

		It("should decode indexed loads with signed displacements", func() {
			inst := mustDecode(0xfd, 0x46, 0x80)
			Expect(inst.Op).To(Equal(cpu.OpLD))
			Expect(inst.Prefix).To(Equal(byte(0xfd)))
			Expect(inst.Src.Mode).To(Equal(cpu.ModeIdx))
			Expect(inst.Src.Pair).To(Equal(cpu.PairIY))
			Expect(inst.Src.Disp).To(Equal(int8(-128)))
			Expect(inst.Length).To(Equal(byte(3)))

			inst = mustDecode(0xdd, 0x36, 0x02, 0x99)
			Expect(inst.Dst.Disp).To(Equal(int8(2)))
			Expect(inst.Src.Value).To(Equal(uint16(0x99)))
			Expect(inst.Length).To(Equal(byte(4)))
		})

		It("should decode extended loads and interrupt modes", func() {
			inst := mustDecode(0xed, 0x73, 0x00, 0xc0)
			Expect(inst.Op).To(Equal(cpu.OpLD16))
			Expect(inst.Dst.Mode).To(Equal(cpu.ModeDirect))
			Expect(inst.Src.Pair).To(Equal(cpu.PairSP))

			inst = mustDecode(0xed, 0x4b, 0x00, 0xc0)
			Expect(inst.Dst.Pair).To(Equal(cpu.PairBC))
			Expect(inst.Src.Mode).To(Equal(cpu.ModeDirect))

			inst = mustDecode(0xed, 0x5e)
			Expect(inst.Op).To(Equal(cpu.OpIM))
			Expect(inst.Bit).To(Equal(byte(2)))
		})

		It("should mark sub-opcodes outside the subset as unimplemented", func() {
			for _, p := range [][]byte{{0xcb, 0x07}, {0xdd, 0x00}, {0xed, 0xb0}} {
				inst := mustDecode(p...)
				Expect(inst.Op).To(Equal(cpu.OpUnimplemented))
				Expect(inst.Prefix).To(Equal(p[0]))
				Expect(inst.Opcode).To(Equal(p[1]))
				Expect(inst.Length).To(Equal(byte(2)))
			}
		})

		It("should consume the displacement and sub-opcode of indexed bit instructions", func() {
			for _, p := range [][]byte{{0xdd, 0xcb, 0x05, 0x46}, {0xfd, 0xcb, 0xfe, 0xc6}} {
				inst := mustDecode(p...)
				Expect(inst.Op).To(Equal(cpu.OpUnimplemented))
				Expect(inst.Prefix).To(Equal(p[0]))
				Expect(inst.Opcode).To(Equal(byte(0xcb)))
				Expect(inst.Length).To(Equal(byte(4)))
			}
		})
	})
})
