package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dfSample = `Filesystem      Size  Used Avail Use% Mounted on
tmpfs           1.6G  2.1M  1.6G   1% /run
/dev/sda2       234G  100G  122G  46% /
/dev/sdb1       1.8T  1.0T  800G  56% /media/My Backup Disk
/dev/mapper/very-long-volume-group-name-root
                 50G   20G   28G  42% /srv
broken line
`

func TestDFTable(t *testing.T) {
	rows, err := DFTable(dfSample)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, "/dev/sda2", rows[1]["Filesystem"])
	assert.Equal(t, "46%", rows[1]["Use%"])
	assert.Equal(t, "/", rows[1]["Mounted on"])

	assert.Equal(t, "/media/My Backup Disk", rows[2]["Mounted on"])
	assert.Equal(t, "800G", rows[2]["Avail"])

	assert.Equal(t, "/dev/mapper/very-long-volume-group-name-root", rows[3]["Filesystem"])
	assert.Equal(t, "/srv", rows[3]["Mounted on"])
}

func TestDFTable_ShortRowsSkipped(t *testing.T) {
	rows, err := DFTable("Filesystem Size Used Avail Use% Mounted on\n/dev/sda1 10G 5G\n")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDFTable_Empty(t *testing.T) {
	_, err := DFTable("")
	assert.Error(t, err)
}
