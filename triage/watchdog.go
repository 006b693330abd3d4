package triage

import (
	"sync"
	"time"
)

// Watchdog calls fire once after timeout passes without a Touch. A stopped
// watchdog ignores Touch until it is started again.
type Watchdog struct {
	sync.Mutex
	timeout time.Duration
	fire    func()

	timer   *time.Timer
	seq     uint64
	running bool
}

// NewWatchdog returns a stopped watchdog. A non-positive timeout never fires.
func NewWatchdog(timeout time.Duration, fire func()) *Watchdog {
	return &Watchdog{
		timeout: timeout,
		fire:    fire,
	}
}

// Start arms the watchdog, restarting the countdown if it is already armed
func (d *Watchdog) Start() {
	d.Lock()
	defer d.Unlock()
	d.running = true
	d.arm()
}

// Touch restarts the countdown of a running watchdog
func (d *Watchdog) Touch() {
	d.Lock()
	defer d.Unlock()
	if !d.running {
		return
	}
	d.arm()
}

// Stop disarms the watchdog. It is safe to call more than once.
func (d *Watchdog) Stop() {
	d.Lock()
	defer d.Unlock()
	d.running = false
	d.disarm()
}

func (d *Watchdog) Running() bool {
	d.Lock()
	defer d.Unlock()
	return d.running
}

func (d *Watchdog) arm() {
	d.disarm()
	if d.timeout <= 0 {
		return
	}

	seq := d.seq
	d.timer = time.AfterFunc(d.timeout, func() {
		d.Lock()
		if !d.running || d.seq != seq {
			d.Unlock()
			return
		}
		d.timer = nil
		d.seq++
		d.Unlock()

		d.fire()
	})
}

func (d *Watchdog) disarm() {
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
