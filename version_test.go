package plonkish_test

import (
	"testing"

	"github.com/blang/semver/v4"
	"github.com/consensys/plonkish"
	"github.com/consensys/plonkish/constraint"
	"github.com/consensys/plonkish/field/babybear"
	"github.com/stretchr/testify/require"
)

func TestVersion(t *testing.T) {
	assert := require.New(t)

	parsed, err := semver.Parse(plonkish.Version.String())
	assert.NoError(err)
	assert.Equal(0, parsed.Compare(plonkish.Version))

	// release tags carry a leading v; tolerant parsing must agree with the
	// hardcoded version so tag comparisons stay meaningful
	tagged, err := semver.ParseTolerant("v" + plonkish.Version.String())
	assert.NoError(err)
	assert.Equal(0, tagged.Compare(plonkish.Version))
}

func TestVersionStampsShapes(t *testing.T) {
	assert := require.New(t)

	cs := constraint.NewSystem[babybear.Element]()
	assert.Equal(plonkish.Version.String(), cs.PlonkishVersion)
	assert.NoError(cs.CheckSerializationHeader())
}
