package board

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/phanxgames/mindmap"
)

func TestExportRecordsWrittenBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	d := mindmap.NewDiagram()
	a := d.AddNodeAt(mindmap.KindTeam, 100, 100)
	p := d.AddNodeAt(mindmap.KindProject, 300, 100)
	if _, err := d.AddConnection(a, p); err != nil {
		t.Fatal(err)
	}

	b := &Board{d: d, cfg: Config{SnapshotPath: path}, log: zap.NewNop(), dirty: true}
	b.export()

	onDisk, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(onDisk, b.lastWritten) {
		t.Errorf("lastWritten differs from the file:\n%s\nvs\n%s", b.lastWritten, onDisk)
	}
	if b.dirty || b.statusErr {
		t.Errorf("dirty = %v, statusErr = %v after export", b.dirty, b.statusErr)
	}
}

func TestExportFailureKeepsDirty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "map.json")
	b := &Board{d: mindmap.NewDiagram(), cfg: Config{SnapshotPath: path}, log: zap.NewNop(), dirty: true}
	b.export()

	if !b.dirty || !b.statusErr || b.lastWritten != nil {
		t.Errorf("dirty = %v, statusErr = %v, lastWritten = %q", b.dirty, b.statusErr, b.lastWritten)
	}
}
