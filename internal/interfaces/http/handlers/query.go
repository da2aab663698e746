package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/thumblens/thumblens/pkg/errors"
)

func queryInt(q url.Values, key string, def int) (int, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.InvalidParam(key + " must be an integer")
	}
	return n, nil
}

func queryIntPtr(q url.Values, key string) (*int, error) {
	if q.Get(key) == "" {
		return nil, nil
	}
	n, err := queryInt(q, key, 0)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func queryBool(q url.Values, key string) (bool, error) {
	s := q.Get(key)
	if s == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, errors.InvalidParam(key + " must be a boolean")
	}
	return b, nil
}

func queryBoolPtr(q url.Values, key string) (*bool, error) {
	if q.Get(key) == "" {
		return nil, nil
	}
	b, err := queryBool(q, key)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// queryList accepts repeated keys and comma separated values.
func queryList(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
