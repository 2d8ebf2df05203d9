package movements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldName(t *testing.T) {
	// "Sololá", "SOLOLA " y "solola" deben producir la misma clave
	assert.Equal(t, foldName("Sololá"), foldName("SOLOLA "))
	assert.Equal(t, "solola", foldName("Sololá"))
	assert.Equal(t, "san jose chacaya", foldName("San José Chacayá"))
	assert.Equal(t, "nahuala", foldName("  NAHUALÁ"))
}

func TestFoldName_NoColapsaNombresDistintos(t *testing.T) {
	assert.NotEqual(t, foldName("San Pedro La Laguna"), foldName("San Pablo La Laguna"))
}
