// Package control provides the start trigger of the control surface.
package control

// Trigger is a disableable button; Press runs the handler only while enabled
type Trigger struct {
	Label string
	Key   string // Keyboard hint shown next to the label

	enabled  bool
	handler  func()
	enables  int
	disables int
	presses  int
}

// NewTrigger creates an enabled trigger
func NewTrigger(label, key string) *Trigger {
	return &Trigger{Label: label, Key: key, enabled: true}
}

// SetHandler sets the function run on an accepted press
func (t *Trigger) SetHandler(fn func()) {
	t.handler = fn
}

// Enable makes the trigger pressable
func (t *Trigger) Enable() {
	t.enabled = true
	t.enables++
}

// Disable rejects presses until the next Enable
func (t *Trigger) Disable() {
	t.enabled = false
	t.disables++
}

// Enabled reports whether the trigger accepts presses
func (t *Trigger) Enabled() bool {
	return t.enabled
}

// Press runs the handler if enabled and reports whether it was accepted
func (t *Trigger) Press() bool {
	if !t.enabled {
		return false
	}
	t.presses++
	if t.handler != nil {
		t.handler()
	}
	return true
}

// Counts returns how many times the trigger was enabled, disabled and accepted a press
func (t *Trigger) Counts() (enables, disables, presses int) {
	return t.enables, t.disables, t.presses
}
