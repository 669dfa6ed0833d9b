package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

type WriteOp string

const (
	OpCreateProfile  WriteOp = "create_profile"
	OpSaveProfile    WriteOp = "save_profile"
	OpSaveDocument   WriteOp = "save_document"
	OpDeleteDocument WriteOp = "delete_document"
)

// PendingWrite is the result of a dispatched write. Callers may ignore it;
// failures are also published on the ErrorBus.
type PendingWrite struct {
	done chan struct{}
	err  error
}

func newPendingWrite() *PendingWrite {
	return &PendingWrite{done: make(chan struct{})}
}

func (p *PendingWrite) complete(err error) {
	p.err = err
	close(p.done)
}

func (p *PendingWrite) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the write finishes or ctx ends.
func (p *PendingWrite) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the write result, or nil while it is still in flight.
func (p *PendingWrite) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

type Dispatcher interface {
	Start(ctx context.Context)
	Stop()
	Dispatch(op WriteOp, ownerID, documentID string, fn func(ctx context.Context) error) *PendingWrite
}

type writeJob struct {
	op         WriteOp
	ownerID    string
	documentID string
	fn         func(ctx context.Context) error
	pending    *PendingWrite
}

type writeDispatcher struct {
	bus          *ErrorBus
	jobQueue     chan writeJob
	concurrency  int
	writeTimeout time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	mu           sync.RWMutex
	stopped      bool
}

func NewDispatcher(bus *ErrorBus, concurrency, queueSize int, writeTimeout time.Duration) Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	if queueSize < 1 {
		queueSize = 100
	}
	return &writeDispatcher{
		bus:          bus,
		jobQueue:     make(chan writeJob, queueSize),
		concurrency:  concurrency,
		writeTimeout: writeTimeout,
		stopChan:     make(chan struct{}),
	}
}

// Start implements Dispatcher.
func (d *writeDispatcher) Start(ctx context.Context) {
	log.Printf("🚀 Starting write dispatcher with %d workers\n", d.concurrency)

	for i := 0; i < d.concurrency; i++ {
		d.wg.Add(1)
		go d.processJobs(ctx, i+1)
	}
}

// Stop implements Dispatcher.
func (d *writeDispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.mu.Unlock()

	log.Println("🛑 Stopping write dispatcher...")
	close(d.stopChan)
	d.wg.Wait()

	// Anything left was queued on a dispatcher that never started or whose
	// context ended.
	for {
		select {
		case job := <-d.jobQueue:
			log.Printf("⚠️  Dropping %s for owner %s: dispatcher stopped\n", job.op, job.ownerID)
			d.finish(job, ErrDispatcherStopped)
		default:
			log.Println("✅ Write dispatcher stopped")
			return
		}
	}
}

// Dispatch implements Dispatcher.
func (d *writeDispatcher) Dispatch(op WriteOp, ownerID, documentID string, fn func(ctx context.Context) error) *PendingWrite {
	job := writeJob{
		op:         op,
		ownerID:    ownerID,
		documentID: documentID,
		fn:         fn,
		pending:    newPendingWrite(),
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.finish(job, ErrDispatcherStopped)
		return job.pending
	}

	select {
	case d.jobQueue <- job:
	case <-d.stopChan:
		d.finish(job, ErrDispatcherStopped)
	}
	return job.pending
}

func (d *writeDispatcher) processJobs(ctx context.Context, workerID int) {
	defer d.wg.Done()

	for {
		select {
		case <-d.stopChan:
			d.drain(ctx, workerID)
			return
		case <-ctx.Done():
			return
		case job := <-d.jobQueue:
			d.run(ctx, job, workerID)
		}
	}
}

// drain runs the writes accepted before Stop. Dispatch rejects new ones once
// stopped is set, so the queue only shrinks here.
func (d *writeDispatcher) drain(ctx context.Context, workerID int) {
	for {
		select {
		case job := <-d.jobQueue:
			d.run(ctx, job, workerID)
		default:
			return
		}
	}
}

func (d *writeDispatcher) run(ctx context.Context, job writeJob, workerID int) {
	writeCtx := ctx
	if d.writeTimeout > 0 {
		var cancel context.CancelFunc
		writeCtx, cancel = context.WithTimeout(ctx, d.writeTimeout)
		defer cancel()
	}

	err := job.fn(writeCtx)
	if err != nil {
		log.Printf("❌ Worker #%d failed %s for owner %s: %v\n", workerID, job.op, job.ownerID, err)
	}
	d.finish(job, err)
}

func (d *writeDispatcher) finish(job writeJob, err error) {
	if err == nil {
		job.pending.complete(nil)
		return
	}

	var perr *PersistenceError
	if !errors.As(err, &perr) {
		perr = &PersistenceError{
			Op:         job.op,
			OwnerID:    job.ownerID,
			DocumentID: job.documentID,
			Err:        err,
		}
	}
	job.pending.complete(perr)
	if d.bus != nil {
		d.bus.Publish(perr)
	}
}
