package provider

import (
	"context"
	"errors"
	"fmt"

	"linktree/internal/scheduler"
)

type anyOf struct {
	members []scheduler.LiveProvider
}

// Any is live as soon as one member reports live. It only fails when every
// member failed, so a single flaky platform cannot hide a live stream.
func Any(members ...scheduler.LiveProvider) scheduler.LiveProvider {
	return &anyOf{members: members}
}

func (a *anyOf) Probe(ctx context.Context) (bool, error) {
	var errs []error
	for _, m := range a.members {
		live, err := probeMember(ctx, m)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if live {
			return true, nil
		}
	}
	if len(errs) > 0 && len(errs) == len(a.members) {
		return false, failure("any", errors.Join(errs...))
	}
	return false, nil
}

// probeMember keeps a panicking member from taking the others down with it.
func probeMember(ctx context.Context, m scheduler.LiveProvider) (live bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			live, err = false, failure("any", fmt.Errorf("member panicked: %v", r))
		}
	}()
	return m.Probe(ctx)
}
