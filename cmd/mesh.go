/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/notargets/ingest/logging"
	"github.com/notargets/ingest/readfiles"
	"github.com/notargets/ingest/types"
)

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:     "mesh FILE",
	Aliases: []string{"stl"},
	Short:   "Read an ASCII STL mesh and summarise it",
	Long: `
Reads FILE (by extension, currently .stl in its ASCII form) and prints the
triangle count, bounding box and surface area. Binary STL is refused.

ingest mesh part.stl --vertices`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := logging.FromContext(cmd.Context())
		msh, err := readfiles.ReadMeshFile(args[0])
		if err != nil {
			return err
		}
		logger.Info("mesh read", "file", args[0], "triangles", msh.NumTriangles())
		vertices, _ := cmd.Flags().GetBool("vertices")
		printMesh(cmd, msh, vertices)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	MeshCmd.Flags().BoolP("vertices", "v", false, "list the vertices of every triangle")
}

func printMesh(cmd *cobra.Command, msh types.Mesh, vertices bool) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "triangles: %d\n", msh.NumTriangles())
	if box, ok := msh.BoundingBox(); ok {
		fmt.Fprintf(w, "bounding box: (%g,%g,%g) - (%g,%g,%g)\n",
			box.Min.X, box.Min.Y, box.Min.Z, box.Max.X, box.Max.Y, box.Max.Z)
	}
	fmt.Fprintf(w, "surface area: %g\n", msh.SurfaceArea())
	if vertices {
		for i, tri := range msh.Triangles {
			fmt.Fprintf(w, "%6d: %s %s %s\n", i, tri[0], tri[1], tri[2])
		}
	}
}
