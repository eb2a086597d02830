package zwave

// Driver is the device driver the session controls. Listeners receive
// events on whatever goroutine the driver delivers them.
type Driver interface {
	Connect(path string) error
	Disconnect(path string) error
	Listen(listener func(Event))
	RemoveAllListeners()
	AddNode() error
	SetValue(nodeID, classID, instance, index int, value interface{}) error
	EnablePoll(nodeID, classID int) error
	SetConfigParam(nodeID, param, value, size int) error
}
