package wavetree

import "github.com/rhyshawkins/wavetree/internal/werr"

func errAllEmpty(op string) error  { return werr.New(werr.AllEmpty, op, nil) }
func errEmptyDepth(op string) error { return werr.New(werr.EmptyDepth, op, nil) }
func errBadArg(op string) error     { return werr.New(werr.BadArg, op, nil) }
