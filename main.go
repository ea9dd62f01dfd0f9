// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"path/filepath"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/hbueno/ttcr/eik"
)

// model is the JSON input of a traveltime run
type model struct {
	Mesh         string      `json:"mesh"`          // mesh filename, relative to the model file
	Opts         *eik.Opts   `json:"opts"`          // solver configuration
	Slowness     []float64   `json:"slowness"`      // slowness field
	Sources      [][]float64 `json:"sources"`       // source table (3, 4 or 5 columns)
	Receivers    [][]float64 `json:"receivers"`     // receiver table (3 or 4 columns)
	AggregateSrc bool        `json:"aggregate_src"` // treat all sources as one wavefront
	ReturnRays   bool        `json:"return_rays"`   // compute raypaths
}

func main() {

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// read input parameters
	fnamepath, _ := io.ArgToFilename(0, "", ".json", true)
	verbose := io.ArgToBool(1, true)

	// message
	if verbose {
		io.PfWhite("\nttcr -- traveltime computation and raytracing on tetrahedral meshes\n\n")
		io.Pf("%v\n", io.ArgsTable(
			"model filename path", "fnamepath", fnamepath,
			"show messages", "verbose", verbose,
		))
	}

	// read model
	b, err := io.ReadFile(fnamepath)
	if err != nil {
		chk.Panic("cannot read model file:\n%v", err)
	}
	var m model
	err = json.Unmarshal(b, &m)
	if err != nil {
		chk.Panic("cannot decode model file:\n%v", err)
	}
	if m.Opts == nil {
		m.Opts = eik.DefaultOpts()
	}
	m.Opts.Verbose = verbose

	// build raytracer
	mshpath := filepath.Join(filepath.Dir(fnamepath), m.Mesh)
	rt, err := eik.NewFromMesh(mshpath, m.Opts)
	if err != nil {
		chk.Panic("cannot build raytracer:\n%v", err)
	}

	// run
	args := &eik.RunArgs{Slowness: m.Slowness, ThreadNo: -1, AggregateSrc: m.AggregateSrc, ReturnRays: m.ReturnRays}
	tt, rays, err := rt.Raytrace(m.Sources, m.Receivers, args)
	if err != nil {
		io.Pfyel("warning: %v\n", err)
	}

	// report
	io.Pf("\n%8s%23s\n", "receiver", "traveltime")
	for i, t := range tt {
		io.Pf("%8d%23.15e\n", i, t)
	}
	if m.ReturnRays {
		io.Pf("\n%8s%12s\n", "receiver", "ray points")
		for i, ray := range rays {
			io.Pf("%8d%12d\n", i, len(ray))
		}
	}
}
