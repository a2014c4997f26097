package mesh

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// supervisorPollInterval is how often the supervision loop checks for dead
// workers.
const supervisorPollInterval = 500 * time.Millisecond

// SupervisorConfig parameterizes a Supervisor's worker pool.
type SupervisorConfig struct {
	// Endpoints is the list of broker endpoints every worker in the pool
	// connects to.
	Endpoints []string
	// Component names the dispatcher kind for net identity and logging.
	Component string
}

// supervisedWorker tracks one fixed slot in the pool: its RouteConn, the
// rendezvous channel it signals readiness on, and a done channel the
// supervisor watches to detect death.
type supervisedWorker struct {
	ready chan struct{}
	done  chan struct{}
	conn  *RouteConn
}

// Supervisor owns a fixed-size, index-stable pool of Dispatcher instances,
// one per shard, restarting any worker whose RouteConn disconnects. Worker
// identity is its slot index: a failed or dead worker's slot is
// overwritten in place by respawning into it, never removed or appended,
// so slot indices stay stable for the lifetime of the supervisor.
type Supervisor struct {
	config    SupervisorConfig
	newWorker func(shard int) Dispatcher
	workers   []*supervisedWorker
	stop      chan struct{}
}

// NewSupervisor returns a Supervisor that will construct pool members with
// newWorker, one per shard index.
func NewSupervisor(config SupervisorConfig, newWorker func(shard int) Dispatcher) *Supervisor {
	return &Supervisor{
		config:    config,
		newWorker: newWorker,
		stop:      make(chan struct{}),
	}
}

// Start brings up workerCount dispatchers and begins supervising them. It
// blocks until every worker has signaled readiness at least once.
func (s *Supervisor) Start(workerCount int) error {
	s.workers = make([]*supervisedWorker, workerCount)

	for i := 0; i < workerCount; i++ {
		if err := s.spawnWorker(i); err != nil {
			return err
		}
	}

	for _, w := range s.workers {
		<-w.ready
	}

	go s.run()

	return nil
}

// spawnWorker starts (or restarts) the dispatcher occupying slot shard,
// overwriting whatever was there before. This is the one place the
// index-stability invariant is enforced: slot shard is always written in
// place, regardless of whether a previous occupant is still running.
func (s *Supervisor) spawnWorker(shard int) error {
	ident := NetIdent(s.config.Component)

	conn, err := NewRouteConn(ident, s.config.Endpoints, shard)
	if err != nil {
		return err
	}

	if err := conn.Register(s.config.Component, []int{shard}); err != nil {
		conn.Close()
		return err
	}

	dispatcher := s.newWorker(shard)
	if err := dispatcher.Init(); err != nil {
		conn.Close()
		return err
	}

	ready := make(chan struct{})
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer conn.Close()

		if err := dispatcher.Start(conn, ready); err != nil {
			log.WithFields(log.Fields{
				"shard": shard,
				"err":   err,
			}).Warn("dispatcher stopped, slot will be respawned")
		}
	}()

	s.workers[shard] = &supervisedWorker{ready: ready, done: done, conn: conn}

	return nil
}

// run watches every worker's done channel and respawns any that exit,
// without backoff, until Stop is called.
func (s *Supervisor) run() {
	cases := make([]chan struct{}, len(s.workers))
	for i, w := range s.workers {
		cases[i] = w.done
	}

	ticker := time.NewTicker(supervisorPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}

		for shard, done := range cases {
			select {
			case <-done:
				log.WithField("shard", shard).Info("respawning dead worker")
				if err := s.spawnWorker(shard); err != nil {
					log.WithFields(log.Fields{"shard": shard, "err": err}).Error("failed to respawn worker")
					continue
				}
				cases[shard] = s.workers[shard].done
			default:
			}
		}
	}
}

// Stop signals the supervision loop to exit. Already-running workers are
// not forcibly killed; they stop when their RouteConn is closed by the
// caller or the broker drops them.
func (s *Supervisor) Stop() {
	close(s.stop)
}
