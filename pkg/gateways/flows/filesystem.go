package flows

import "os"

type filesystemManagement interface {
	readFlowsFile(filepath string) ([]byte, error)
	writeFlowsFile(filepath string, data []byte) error
}

type fileManagement struct{}

func (fs *fileManagement) readFlowsFile(filepath string) ([]byte, error) {
	return os.ReadFile(filepath)
}

func (fs *fileManagement) writeFlowsFile(filepath string, data []byte) error {
	return os.WriteFile(filepath, data, 0600)
}
