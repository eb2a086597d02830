package flows

import "github.com/stretchr/testify/mock"

type fileManagementMock struct {
	mock.Mock
	written []byte
}

func (fm *fileManagementMock) readFlowsFile(filepath string) ([]byte, error) {
	args := fm.Called(filepath)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (fm *fileManagementMock) writeFlowsFile(filepath string, data []byte) error {
	fm.written = data
	args := fm.Called(filepath)
	return args.Error(0)
}
