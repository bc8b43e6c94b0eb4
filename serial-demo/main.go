package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	llt "github.com/zattak3000/llt-power-serial"
)

func main() {
	v := viper.New()
	v.SetEnvPrefix("llt")
	v.SetDefault("baud", llt.BAUD)
	v.SetDefault("watch", time.Duration(0))
	v.SetDefault("debug", false)
	v.AutomaticEnv()

	if v.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
		llt.DebugLogFunc = log.Debugf
	}
	llt.InfoLogFunc = log.Infof
	llt.ErrorLogFunc = log.Errorf

	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s PORT\n"+
			" e.g.: %s /dev/ttyUSB0\n",
			os.Args[0],
			os.Args[0])
		os.Exit(1)
	}

	con := &llt.Controller{
		Dialer: &llt.Dialer{
			Port: os.Args[1],
			Baud: v.GetInt("baud"),
		},
	}

	if every := v.GetDuration("watch"); every > 0 {
		watch(con, every)
	} else {
		dump(&llt.BMS{Con: con}, v.GetBool("debug"))
	}
}

func dump(bms *llt.BMS, verbose bool) {
	ver, err := bms.Version()
	if err != nil {
		log.Fatalf("version: %s", err)
	}
	fmt.Println(center("BMS Version"))
	fmt.Println(ver)

	info, err := bms.Info()
	if err != nil {
		log.Fatalf("info: %s", err)
	}
	fmt.Println()
	fmt.Println(center("BMS Info"))
	if verbose {
		spew.Dump(info)
	} else {
		fmt.Printf("Voltage: %.2f V\n", info.Volts)
		fmt.Printf("Current: %.2f A\n", info.Amps)
		fmt.Printf("Residual Capacity: %.2f Ah\n", info.Residual)
		fmt.Printf("Nominal Capacity: %.2f Ah\n", info.Nominal)
		fmt.Printf("Cycle Life: %d\n", info.Cycles)
		fmt.Printf("Product Date: %s\n", info.Made)
		fmt.Printf("Balance Status: %016b %016b\n",
			info.BalanceHigh, info.Balance)
		fmt.Printf("Protection Status: %v\n", info.Faults())
		fmt.Printf("Version: %.1f\n", info.Version)
		fmt.Printf("Relative SOC: %d%%\n", info.SOC)
		fmt.Printf("FET Status: charge=%t discharge=%t\n",
			info.ChargeFET(), info.DischargeFET())
		for i, t := range info.Temps {
			fmt.Printf("NTC %d: %.1f F\n", i+1, t)
		}
	}

	volts, err := bms.Volts()
	if err != nil {
		log.Fatalf("voltages: %s", err)
	}
	fmt.Println()
	fmt.Println(center("Cell Voltages"))
	for i, v := range volts {
		fmt.Printf("Cell %d: %g V\n", i+1, v)
	}
}

func watch(con *llt.Controller, every time.Duration) {
	s := &llt.Scanner{
		Controller: con,
		Subs: []llt.SubScanner{
			&llt.Poller{
				Every: every,
				Cmds: []llt.Cmd{
					llt.NewStatusCmd(),
					llt.NewVoltagesCmd(),
				},
				Done: func(cmd llt.Cmd, err error) {
					if err == nil {
						fmt.Println(cmd.Rx())
					}
				},
			},
		},
	}
	s.Run(make(chan struct{}))
	select {}
}

func center(s string) string {
	const w = 50
	if len(s) >= w {
		return s
	}
	p := w - len(s)
	return strings.Repeat("-", p/2) + s + strings.Repeat("-", p-p/2)
}
