package main

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/consensys/bavard"
)

const copyrightHolder = "Consensys Software Inc."

//go:generate go run main.go
func main() {
	bgen := bavard.NewBatchGenerator(copyrightHolder, 2025, "plonkish")

	specs := []fieldSpec{
		{
			Name:      "bn254",
			Doc:       "the scalar field of the BN254 curve",
			FrPackage: "github.com/consensys/gnark-crypto/ecc/bn254/fr",
		},
		{
			Name:      "bls12377",
			Doc:       "the scalar field of the BLS12-377 curve",
			FrPackage: "github.com/consensys/gnark-crypto/ecc/bls12-377/fr",
		},
		{
			Name:      "babybear",
			Doc:       "the 31-bit BabyBear field",
			FrPackage: "github.com/consensys/gnark-crypto/field/babybear",
		},
	}

	for _, spec := range specs {
		assertNoError(bgen.Generate(spec, spec.Name, "templates",
			bavard.Entry{
				File:      fmt.Sprintf("../../%s/element.go", spec.Name),
				Templates: []string{"element.go.tmpl"},
			},
		), "for field %q", spec.Name)
	}

	// run gofmt on the generated packages
	runCmd("gofmt", "-w", "../../")
}

type fieldSpec struct {
	Name      string
	Doc       string
	FrPackage string
}

func runCmd(name string, arg ...string) {
	fmt.Println(name, strings.Join(arg, " "))
	cmd := exec.Command(name, arg...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	assertNoError(cmd.Run(), "")
}

func assertNoError(err error, contextAndArgs ...any) {
	if err != nil {
		msg := err.Error()

		if len(contextAndArgs) > 0 {
			allArgs := append(slices.Clone(contextAndArgs[1:]), err)
			msg = fmt.Sprintf(contextAndArgs[0].(string)+": %v", allArgs...)
		}

		fmt.Println(msg)
		os.Exit(1)
	}
}
