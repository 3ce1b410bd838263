package project

import (
	"os"
	"path/filepath"
)

// Markers that identify a reportcard workspace
var (
	configFiles = []string{".reportcardrc.json", ".reportcardrc.yaml", ".reportcardrc.yml"}
	stateDir    = ".reportcard"
	recordsDir  = "records"
)

// Info contains information about the detected workspace.
// Named 'Info' instead of 'WorkspaceInfo' to avoid stuttering.
type Info struct {
	Root       string
	HasConfig  bool
	HasLedger  bool
	HasRecords bool
}

// FindProjectRoot searches for a workspace root starting from the given path
// and climbing up the directory tree if needed. Without a marker anywhere
// above, the start path itself is the root.
func FindProjectRoot(startPath string) (string, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return "", err
	}

	currentDir := absPath
	for {
		if isProjectRoot(currentDir) {
			return currentDir, nil
		}
		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			break
		}
		currentDir = parent
	}

	return absPath, nil
}

// isProjectRoot determines if a directory is a workspace root
func isProjectRoot(path string) bool {
	info := Detect(path)
	return info.HasConfig || info.HasLedger || info.HasRecords
}

// Detect reports which workspace markers exist at rootPath
func Detect(rootPath string) *Info {
	info := &Info{Root: rootPath}
	for _, name := range configFiles {
		if exists(filepath.Join(rootPath, name), false) {
			info.HasConfig = true
			break
		}
	}
	info.HasLedger = exists(filepath.Join(rootPath, stateDir), true)
	info.HasRecords = exists(filepath.Join(rootPath, recordsDir), true)
	return info
}

func exists(path string, wantDir bool) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return fi.IsDir() == wantDir
}
