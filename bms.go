package llt

const VendorTag = "LH-"

type BMS struct {
	Con IController
}

func (b *BMS) Info() (*Info, error) {
	cmd := NewStatusCmd()
	if err := b.Con.Send(cmd); err != nil {
		return nil, err
	}
	return cmd.Info()
}

func (b *BMS) Volts() ([]float64, error) {
	cmd := NewVoltagesCmd()
	if err := b.Con.Send(cmd); err != nil {
		return nil, err
	}
	return cmd.Volts()
}

func (b *BMS) Version() (string, error) {
	cmd := NewVersionCmd()
	if err := b.Con.Send(cmd); err != nil {
		return "", err
	}
	return VendorTag + cmd.Version(), nil
}

// SetMosfet is best effort: some firmwares acknowledge the write
// without actually switching the FETs.
func (b *BMS) SetMosfet(mode MosfetMode) error {
	return b.Con.Send(NewMosfetCmd(mode))
}
