package srv

type Srv struct {
	dispatcher *Dispatcher
	pdf        *PdfRenderer
}

type ApplyFunc func(*Srv)

func SetupSrvs(opts ...ApplyFunc) *Srv {
	s := &Srv{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func ApplyDispatcher(d *Dispatcher) ApplyFunc {
	return func(s *Srv) {
		s.dispatcher = d
	}
}

func ApplyPdfRenderer(p *PdfRenderer) ApplyFunc {
	return func(s *Srv) {
		s.pdf = p
	}
}

func (s *Srv) Dispatcher() *Dispatcher {
	return s.dispatcher
}

func (s *Srv) Pdf() *PdfRenderer {
	return s.pdf
}
