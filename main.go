// Copyright 2020 The OpenSPH Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/xupeiwust/OpenSPH/geom"
	"github.com/xupeiwust/OpenSPH/ic"
	"github.com/xupeiwust/OpenSPH/inp"
	"github.com/xupeiwust/OpenSPH/pool"
	"github.com/xupeiwust/OpenSPH/quant"
	"github.com/xupeiwust/OpenSPH/run"
)

// exit codes of the driver
const (
	exitOk        = 0
	exitUserError = 1
	exitConfig    = 2
	exitIo        = 3
	exitInternal  = 64
)

func main() {

	// invariant violations surface as panics and exit with the internal code
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("\nINTERNAL ERROR: %v\n", err)
			chk.Verbose = true
			for i := 5; i > 3; i-- {
				chk.CallerInfo(i)
			}
			os.Exit(exitInternal)
		}
	}()

	if len(os.Args) < 2 {
		io.Pf("usage: %s <run-config> [materials.json]\n", os.Args[0])
		os.Exit(exitUserError)
	}

	// configuration: JSON settings or INI run config
	settings := inp.NewRunSettings()
	cfg := os.Args[1]
	var err error
	if strings.HasSuffix(cfg, ".json") {
		err = settings.Load(cfg)
	} else {
		err = inp.ReadRunConfig(cfg, settings)
	}
	if err != nil {
		io.PfRed("configuration error: %v\n", err)
		os.Exit(exitConfig)
	}

	// materials
	var mat *inp.Material
	if len(os.Args) > 2 {
		mdb, err := inp.ReadMat(os.Args[2])
		if err != nil {
			io.PfRed("i/o error: %v\n", err)
			os.Exit(exitIo)
		}
		if len(mdb.Materials) == 0 {
			io.PfRed("configuration error: materials file is empty\n")
			os.Exit(exitConfig)
		}
		mat = mdb.Materials[0]
	} else {
		mat = inp.DefaultBasalt()
	}

	if err := execute(settings, mat); err != nil {
		io.PfRed("run failed: %v\n", err)
		os.Exit(exitIo)
	}
	io.PfGreen("> Success\n")
	os.Exit(exitOk)
}

// execute builds the bodies and runs the three phases
func execute(settings *inp.Settings, mat *inp.Material) (err error) {
	p := pool.New(settings.GetInt("pool.threads"))

	// target and impactor
	body := inp.NewBodySettings()
	storage := quant.NewStorage()
	stage := ic.New(settings)
	size := settings.GetVec("domain.size")
	target := &geom.SphericalDomain{Cen: settings.GetVec("domain.center"), R: 0.5 * size[0]}
	if _, _, err = stage.AddBody(storage, mat, target, body); err != nil {
		return
	}
	impactor := body.Clone()
	impactor.SetInt("body.particle.count", body.GetInt("body.particle.count")/100)
	if _, _, err = stage.AddImpactor(storage, mat, target, impactor, 0.1*target.R, 0.0, 5000.0); err != nil {
		return
	}
	ic.MoveToCenterOfMass(storage)

	// phase composition
	stab, err := run.NewStabilization(settings, p)
	if err != nil {
		return
	}
	frag, err := run.NewFragmentation(settings, p)
	if err != nil {
		return
	}
	reac, err := run.NewReaccumulation(settings, p)
	if err != nil {
		return
	}
	pipe := &run.Pipeline{
		Phases:  []run.Phase{stab, frag, reac},
		Summary: stab.Runner.Summary,
		Verbose: true,
	}
	stab.Runner.Verbose = true
	frag.Runner.Verbose = true
	reac.Runner.Verbose = true
	if err = pipe.Run(storage); err != nil {
		return
	}

	// post-processing: fragments and their size-frequency distribution
	frags := run.FindFragments(storage, 2.0)
	sfd := run.AnalyzeSFD(frags)
	io.Pf("> %d fragments; largest remnant carries %.1f%% of the mass\n",
		len(frags), 100.0*sfd.LargestFraction)

	return pipe.Summary.Save(settings.GetString("run.output.path"), settings.GetString("run.name"))
}
