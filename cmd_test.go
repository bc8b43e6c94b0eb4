package llt_test

import (
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	. "github.com/zattak3000/llt-power-serial"
)

var _ = Describe("StatusCmd", func() {
	var cmd *StatusCmd
	SetRx := func(b []byte) {
		BeforeEach(func() {
			rx := cmd.RxBytes()
			*rx = (*rx)[:len(b)]
			copy(*rx, b)
		})
	}

	String := func(x string) {
		It("has String", func() {
			Expect(cmd.String()).To(Equal(x))
		})
	}
	OnlyTx := func(s string, b []byte) {
		It("has Tx Bytes", func() {
			Expect(cmd.TxBytes()).To(Equal(b))
		})
		It("has Op", func() {
			Expect(cmd.Op()).To(Equal(STATUS))
		})
		It("has Tx String", func() {
			Expect(cmd.Tx()).To(Equal(s))
		})
		String(s + "\n[]")
	}
	IsValidRx := func() {
		It("is Valid Rx", func() {
			Expect(cmd.IsValidRx()).To(BeTrue())
		})
	}
	VerifyRx := func() {
		It("has good sum", func() {
			Expect(cmd.VerifyRx()).To(BeTrue())
		})
	}
	RxBytes := func(x []byte) {
		It("has Rx Bytes", func() {
			Expect(*cmd.RxBytes()).To(Equal(x))
		})
	}
	RxString := func(x string) {
		It("has Rx String", func() {
			Expect(cmd.Rx()).To(Equal(x))
		})
	}
	GoodRx := func(rb []byte, tx, rx string) {
		IsValidRx()
		VerifyRx()
		RxBytes(rb)
		RxString(rx)
		String(tx + "\n" + rx)
		It("has no Err", func() {
			Expect(cmd.Err()).To(Succeed())
		})
	}

	BeforeEach(func() {
		cmd = NewStatusCmd()
	})

	const tx = "<-ST"
	Context("New", func() {
		OnlyTx(tx, []byte{0xDD, 0xA5, 0x03, 0x00, 0xFF, 0xFD, 0x77})
	})

	Context("Valid Rx", func() {
		b := []byte{
			0xDD, 0x03, 0x00, 0x1B,
			0x05, 0x3E, 0xFF, 0x33, 0x09, 0xE2, 0x27, 0x10,
			0x00, 0x2A, 0x29, 0x46, 0x00, 0x03, 0x00, 0x00,
			0x00, 0x00, 0x15, 0x4C, 0x03, 0x04, 0x02,
			0x0B, 0xB9, 0x0B, 0xA5,
			0xFA, 0xD4, 0x77,
		}
		const rx = "->ST  13.42V -2.05A 76%"

		SetRx(b)
		GoodRx(b, tx, rx)
		It("has Info", func() {
			info, err := cmd.Info()
			Expect(err).ToNot(HaveOccurred())
			Expect(info.Volts).To(Equal(13.42))
			Expect(info.Amps).To(Equal(-2.05))
			Expect(info.SOC).To(Equal(76))
			Expect(info.Made).To(Equal(Date{2020, 10, 6}))
			Expect(info.Temps).To(HaveLen(2))
		})
	})

	Context("Faulted Rx", func() {
		b := []byte{
			0xDD, 0x03, 0x00, 0x1B,
			0x05, 0x3E, 0xFF, 0x33, 0x09, 0xE2, 0x27, 0x10,
			0x00, 0x2A, 0x29, 0x46, 0x00, 0x03, 0x00, 0x00,
			0x00, 0x05, 0x15, 0x4C, 0x03, 0x04, 0x02,
			0x0B, 0xB9, 0x0B, 0xA5,
			0xFA, 0xCF, 0x77,
		}
		const rx = "->ST  13.42V -2.05A 76% !2"

		SetRx(b)
		GoodRx(b, tx, rx)
		It("has Faults", func() {
			info, err := cmd.Info()
			Expect(err).ToNot(HaveOccurred())
			Expect(info.Faults()).To(HaveLen(2))
		})
	})

	Context("Odd Rx", func() {
		b := []byte{
			0xDD, 0x03, 0x00, 0x04,
			0x01, 0x02, 0x03, 0x04,
			0xFF, 0xF2, 0x77,
		}
		const rx = "->ST  [01 02 03 04]"

		SetRx(b)
		IsValidRx()
		VerifyRx()
		RxString(rx)
		String(tx + "\n" + rx)
		It("has no Info", func() {
			_, err := cmd.Info()
			Expect(err).To(MatchError(DecodeErr("info too short: 4")))
		})
	})

	Context("Err Rx", func() {
		b := []byte{0xDD, 0x03, 0x81, 0x00, 0xFF, 0x7F, 0x77}
		const rx = "->ST  device error: 0x81"

		SetRx(b)
		IsValidRx()
		VerifyRx()
		RxBytes(b)
		RxString(rx)
		String(tx + "\n" + rx)
		It("has Err", func() {
			Expect(cmd.Err()).To(Equal(DeviceErr(0x81)))
		})
	})

	Context("Bad Rx", func() {
		SetRx([]byte{0xDD, 0x03, 0x00})

		It("is not Valid Rx", func() {
			Expect(cmd.IsValidRx()).To(BeFalse())
		})
		String(tx + "\n[DD 03 00]")
	})
})

var _ = Describe("VoltagesCmd", func() {
	var cmd *VoltagesCmd
	SetRx := func(b []byte) {
		BeforeEach(func() {
			rx := cmd.RxBytes()
			*rx = (*rx)[:len(b)]
			copy(*rx, b)
		})
	}

	String := func(x string) {
		It("has String", func() {
			Expect(cmd.String()).To(Equal(x))
		})
	}
	Count := func(x int) {
		It("has Count", func() {
			Expect(cmd.Count()).To(Equal(x))
		})
	}
	OnlyTx := func(s string, b []byte) {
		It("has Tx Bytes", func() {
			Expect(cmd.TxBytes()).To(Equal(b))
		})
		It("has Op", func() {
			Expect(cmd.Op()).To(Equal(VOLTAGE))
		})
		It("has Tx String", func() {
			Expect(cmd.Tx()).To(Equal(s))
		})
		String(s + "\n[]")
		Count(0)
	}
	IsValidRx := func() {
		It("is Valid Rx", func() {
			Expect(cmd.IsValidRx()).To(BeTrue())
		})
	}
	VerifyRx := func() {
		It("has good sum", func() {
			Expect(cmd.VerifyRx()).To(BeTrue())
		})
	}
	RxBytes := func(x []byte) {
		It("has Rx Bytes", func() {
			Expect(*cmd.RxBytes()).To(Equal(x))
		})
	}
	RxString := func(x string) {
		It("has Rx String", func() {
			Expect(cmd.Rx()).To(Equal(x))
		})
	}
	GoodRx := func(rb []byte, tx, rx string, a []uint16) {
		IsValidRx()
		VerifyRx()
		RxBytes(rb)
		RxString(rx)
		String(tx + "\n" + rx)
		Count(len(a))
		It("has no Err", func() {
			Expect(cmd.Err()).To(Succeed())
		})
		It("has Cells", func() {
			for i, x := range a {
				Expect(cmd.Cell(i)).To(Equal(x), "Cell "+strconv.Itoa(i))
			}
		})
	}

	BeforeEach(func() {
		cmd = NewVoltagesCmd()
	})

	const tx = "<-CV"
	Context("New", func() {
		OnlyTx(tx, []byte{0xDD, 0xA5, 0x04, 0x00, 0xFF, 0xFC, 0x77})
	})

	Context("one cell", func() {
		b := []byte{0xDD, 0x04, 0x00, 0x02, 0x0F, 0xA0, 0xFF, 0x4F, 0x77}
		const rx = "->CV  1[ 4000]"

		SetRx(b)
		GoodRx(b, tx, rx, []uint16{4000})
		It("has Volts", func() {
			Expect(cmd.Volts()).To(Equal([]float64{4.0}))
		})
		It("can't read -1 cell", func() {
			Expect(func() {
				cmd.Cell(-1)
			}).Should(PanicWith("invalid i: -1"))
		})
		It("can't read too many cell", func() {
			Expect(func() {
				cmd.Cell(1)
			}).Should(PanicWith("invalid i: 1"))
		})
	})

	Context("four cells", func() {
		b := []byte{
			0xDD, 0x04, 0x00, 0x08,
			0x0C, 0xDF, 0x0C, 0xE5, 0x0C, 0xE2, 0x0C, 0xE4,
			0xFC, 0x3E, 0x77,
		}
		const rx = "->CV  4[ 3295  3301  3298  3300]"

		SetRx(b)
		GoodRx(b, tx, rx, []uint16{3295, 3301, 3298, 3300})
		It("has Volts", func() {
			Expect(cmd.Volts()).To(Equal(
				[]float64{3.295, 3.301, 3.298, 3.3}))
		})
	})

	Context("six cells", func() {
		b := []byte{
			0xDD, 0x04, 0x00, 0x0C,
			0, 1, 0, 2, 0, 3, 1, 1, 1, 2, 1, 3,
			0xFF, 0xE5, 0x77,
		}
		const rx = "->CV  6[    1     2     3   257   258 :   259]"

		SetRx(b)
		GoodRx(b, tx, rx, []uint16{1, 2, 3, 257, 258, 259})
	})

	Context("sixteen cells", func() {
		b := make([]byte, 39)
		b[0] = 0xDD
		b[1] = 0x04
		b[3] = 32
		a := make([]uint16, 16)
		for i := range a {
			v := 3300 + uint16(i)
			a[i] = v
			b[4+2*i] = byte(v >> 8)
			b[5+2*i] = byte(v)
		}
		b[36] = 0xF0
		b[37] = 0x68
		b[38] = 0x77
		const rx = `->CV  16[
 3300  3301  3302  3303  3304 :  3305  3306  3307  3308  3309
 3310  3311  3312  3313  3314 :  3315
]`

		SetRx(b)
		GoodRx(b, tx, rx, a)
	})

	Context("Odd Rx", func() {
		b := []byte{0xDD, 0x04, 0x00, 0x03, 0x0C, 0xDF, 0x0C, 0xFF, 0x06, 0x77}
		const rx = "->CV  [0C DF 0C]"

		SetRx(b)
		IsValidRx()
		VerifyRx()
		RxString(rx)
		String(tx + "\n" + rx)
		It("has no Volts", func() {
			_, err := cmd.Volts()
			Expect(err).To(MatchError(DecodeErr("odd voltage payload: 3")))
		})
	})

	Context("Forged Rx", func() {
		SetRx([]byte{0xDD, 0x04, 0x00, 0x02, 0x0F, 0xA0, 0xFF, 0x4E, 0x77})

		IsValidRx()
		It("has bad sum", func() {
			Expect(cmd.VerifyRx()).To(BeFalse())
		})
	})

	Context("Err Rx", func() {
		b := []byte{0xDD, 0x04, 0x80, 0x00, 0xFF, 0x80, 0x77}
		const rx = "->CV  device error: 0x80"

		SetRx(b)
		IsValidRx()
		VerifyRx()
		RxBytes(b)
		RxString(rx)
		String(tx + "\n" + rx)
		It("has Err", func() {
			Expect(cmd.Err()).To(Equal(DeviceErr(0x80)))
		})
	})
})

var _ = Describe("VersionCmd", func() {
	var cmd *VersionCmd
	SetRx := func(b []byte) {
		BeforeEach(func() {
			rx := cmd.RxBytes()
			*rx = (*rx)[:len(b)]
			copy(*rx, b)
		})
	}

	String := func(x string) {
		It("has String", func() {
			Expect(cmd.String()).To(Equal(x))
		})
	}
	OnlyTx := func(s string, b []byte) {
		It("has Tx Bytes", func() {
			Expect(cmd.TxBytes()).To(Equal(b))
		})
		It("has Op", func() {
			Expect(cmd.Op()).To(Equal(VERSION))
		})
		It("has Tx String", func() {
			Expect(cmd.Tx()).To(Equal(s))
		})
		String(s + "\n[]")
	}
	IsValidRx := func() {
		It("is Valid Rx", func() {
			Expect(cmd.IsValidRx()).To(BeTrue())
		})
	}
	VerifyRx := func() {
		It("has good sum", func() {
			Expect(cmd.VerifyRx()).To(BeTrue())
		})
	}
	GoodRx := func(rb []byte, tx, rx, version string) {
		IsValidRx()
		VerifyRx()
		It("has Rx Bytes", func() {
			Expect(*cmd.RxBytes()).To(Equal(rb))
		})
		It("has Rx String", func() {
			Expect(cmd.Rx()).To(Equal(rx))
		})
		String(tx + "\n" + rx)
		It("has no Err", func() {
			Expect(cmd.Err()).To(Succeed())
		})
		It("has Version", func() {
			Expect(cmd.Version()).To(Equal(version))
		})
	}

	BeforeEach(func() {
		cmd = NewVersionCmd()
	})

	const tx = "<-VER"
	Context("New", func() {
		OnlyTx(tx, []byte{0xDD, 0xA5, 0x05, 0x00, 0xFF, 0xFB, 0x77})
	})

	Context("Valid Rx", func() {
		b := []byte{0xDD, 0x05, 0x00, 0x03, '2', '.', '1', 0xFF, 0x6C, 0x77}
		SetRx(b)
		GoodRx(b, tx, "->VER 2.1", "2.1")
	})

	Context("Empty Rx", func() {
		b := []byte{0xDD, 0x05, 0x00, 0x00, 0x00, 0x00, 0x77}
		SetRx(b)
		GoodRx(b, tx, "->VER ", "")
	})

	Context("Err Rx", func() {
		b := []byte{0xDD, 0x05, 0x83, 0x00, 0xFF, 0x7D, 0x77}
		const rx = "->VER device error: 0x83"

		SetRx(b)
		IsValidRx()
		VerifyRx()
		String(tx + "\n" + rx)
		It("has Rx String", func() {
			Expect(cmd.Rx()).To(Equal(rx))
		})
		It("has Err", func() {
			Expect(cmd.Err()).To(Equal(DeviceErr(0x83)))
		})
	})
})

var _ = Describe("MosfetCmd", func() {
	var cmd *MosfetCmd
	SetRx := func(b []byte) {
		BeforeEach(func() {
			rx := cmd.RxBytes()
			*rx = (*rx)[:len(b)]
			copy(*rx, b)
		})
	}

	String := func(x string) {
		It("has String", func() {
			Expect(cmd.String()).To(Equal(x))
		})
	}
	OnlyTx := func(mode MosfetMode, s string, b []byte) {
		It("has Tx Bytes", func() {
			Expect(cmd.TxBytes()).To(Equal(b))
		})
		It("has Op", func() {
			Expect(cmd.Op()).To(Equal(MOSFET))
		})
		It("has Mode", func() {
			Expect(cmd.Mode()).To(Equal(mode))
		})
		It("has Tx String", func() {
			Expect(cmd.Tx()).To(Equal(s))
		})
		String(s + "\n[]")
	}

	Describe("Invalid New", func() {
		It("can't block nothing", func() {
			Expect(func() {
				NewMosfetCmd(0)
			}).Should(PanicWith("invalid mode: 0"))
		})
		It("can't block beyond both", func() {
			Expect(func() {
				NewMosfetCmd(4)
			}).Should(PanicWith("invalid mode: 4"))
		})
	})

	Context("charge", func() {
		BeforeEach(func() {
			cmd = NewMosfetCmd(BlockCharge)
		})

		const tx = "<-FET charge"
		Context("New", func() {
			OnlyTx(BlockCharge, tx, []byte{
				0xDD, 0x5A, 0xE2, 0x02, 0x00, 0x01, 0xFF, 0x1B, 0x77,
			})
		})

		Context("Valid Rx", func() {
			b := []byte{0xDD, 0xE2, 0x00, 0x00, 0x00, 0x00, 0x77}
			const rx = "->FET ok"

			SetRx(b)
			It("is Valid Rx", func() {
				Expect(cmd.IsValidRx()).To(BeTrue())
			})
			It("has good sum", func() {
				Expect(cmd.VerifyRx()).To(BeTrue())
			})
			It("has Rx Bytes", func() {
				Expect(*cmd.RxBytes()).To(Equal(b))
			})
			It("has Rx String", func() {
				Expect(cmd.Rx()).To(Equal(rx))
			})
			String(tx + "\n" + rx)
			It("has no Err", func() {
				Expect(cmd.Err()).To(Succeed())
			})
		})

		Context("Err Rx", func() {
			b := []byte{0xDD, 0xE2, 0x80, 0x00, 0xFF, 0x80, 0x77}
			const rx = "->FET device error: 0x80"

			SetRx(b)
			It("is Valid Rx", func() {
				Expect(cmd.IsValidRx()).To(BeTrue())
			})
			It("has Rx String", func() {
				Expect(cmd.Rx()).To(Equal(rx))
			})
			String(tx + "\n" + rx)
			It("has Err", func() {
				Expect(cmd.Err()).To(Equal(DeviceErr(0x80)))
			})
		})

		Context("Bad Rx", func() {
			SetRx([]byte{0xDD})

			It("is not Valid Rx", func() {
				Expect(cmd.IsValidRx()).To(BeFalse())
			})
			String(tx + "\n[DD]")
		})
	})

	Context("discharge", func() {
		BeforeEach(func() {
			cmd = NewMosfetCmd(BlockDischarge)
		})

		Context("New", func() {
			OnlyTx(BlockDischarge, "<-FET discharge", []byte{
				0xDD, 0x5A, 0xE2, 0x02, 0x00, 0x02, 0xFF, 0x1A, 0x77,
			})
		})
	})

	Context("both", func() {
		BeforeEach(func() {
			cmd = NewMosfetCmd(BlockBoth)
		})

		Context("New", func() {
			OnlyTx(BlockBoth, "<-FET both", []byte{
				0xDD, 0x5A, 0xE2, 0x02, 0x00, 0x03, 0xFF, 0x19, 0x77,
			})
		})
	})
})

var _ = Describe("MosfetMode", func() {
	DescribeTable("String",
		func(m MosfetMode, s string) {
			Expect(m.String()).To(Equal(s))
		},
		Entry(nil, BlockCharge, "charge"),
		Entry(nil, BlockDischarge, "discharge"),
		Entry(nil, BlockBoth, "both"),
		Entry(nil, MosfetMode(9), "mode 9"),
	)
})
