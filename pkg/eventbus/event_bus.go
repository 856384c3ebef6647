package eventbus

import (
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"
)

// EventBus dispatches domain events to subscribed handlers. Handlers are
// plain functions; an event is delivered to every handler whose parameter
// list is assignable from the published arguments.
type EventBus interface {
	Publish(args ...interface{})
	Subscribe(handler interface{})
	Unsubscribe(handler interface{})
	Clear()
	SubscribersCount() int
}

type publisher struct {
	log      *logrus.Logger
	mu       sync.RWMutex
	handlers []interface{}
}

func NewEventPublisher(log *logrus.Logger) EventBus {
	return &publisher{log: log}
}

// MatchSignature reports whether handler is a function that can be called
// with the given argument list.
func MatchSignature(handler interface{}, args []interface{}) bool {
	t := reflect.TypeOf(handler)
	if t.Kind() != reflect.Func || t.NumIn() != len(args) {
		return false
	}
	for i, arg := range args {
		if !argAssignable(t.In(i), arg) {
			return false
		}
	}
	return true
}

func argAssignable(param reflect.Type, arg interface{}) bool {
	if arg == nil {
		return param.Kind() == reflect.Interface || param.Kind() == reflect.Ptr
	}
	at := reflect.TypeOf(arg)
	if param.Kind() == reflect.Interface {
		return at.Implements(param)
	}
	return at.AssignableTo(param)
}

func (p *publisher) Publish(args ...interface{}) {
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		in[i] = reflect.ValueOf(arg)
	}

	p.mu.RLock()
	handlers := make([]interface{}, len(p.handlers))
	copy(handlers, p.handlers)
	p.mu.RUnlock()

	delivered := 0
	for _, handler := range handlers {
		if !MatchSignature(handler, args) {
			continue
		}
		p.call(handler, in)
		delivered++
	}
	if delivered == 0 && p.log != nil {
		p.log.Debugf("eventbus: event %v had no subscribers", in)
	}
}

func (p *publisher) call(handler interface{}, in []reflect.Value) {
	defer func() {
		if r := recover(); r != nil && p.log != nil {
			p.log.Errorf("eventbus: handler %T panicked: %v", handler, r)
		}
	}()
	reflect.ValueOf(handler).Call(in)
}

func (p *publisher) Subscribe(handler interface{}) {
	if reflect.TypeOf(handler).Kind() != reflect.Func {
		panic("eventbus: handler must be a function")
	}
	p.mu.Lock()
	p.handlers = append(p.handlers, handler)
	p.mu.Unlock()
}

func (p *publisher) Unsubscribe(handler interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, h := range p.handlers {
		if h == handler {
			p.handlers = append(p.handlers[:i], p.handlers[i+1:]...)
			return
		}
	}
}

func (p *publisher) Clear() {
	p.mu.Lock()
	p.handlers = nil
	p.mu.Unlock()
}

func (p *publisher) SubscribersCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.handlers)
}
