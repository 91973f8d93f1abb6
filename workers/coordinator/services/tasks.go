package services

import (
	"context"
	"log"
	"sync"
)

// TaskGroup runs fire-and-forget work bound to the worker's lifetime rather
// than to the request that started it.
type TaskGroup struct {
	ctx context.Context
	wg  sync.WaitGroup
}

func NewTaskGroup(ctx context.Context) *TaskGroup {
	return &TaskGroup{ctx: ctx}
}

func (g *TaskGroup) Go(name string, fn func(ctx context.Context)) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Task %s panicked: %v", name, r)
			}
		}()
		fn(g.ctx)
	}()
}

// Wait blocks until every spawned task has returned.
func (g *TaskGroup) Wait() {
	g.wg.Wait()
}
