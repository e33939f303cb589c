package session

import (
	"fmt"
	"time"

	"github.com/legisbr/legis/internal/legal"
)

// Pass is one sequential run over the citations that were pending when it
// began. Callers alternate Next and Resolve until Next reports false, then
// call Finish. The network fetch between Next and Resolve may run anywhere;
// the session itself is only touched by these methods.
type Pass struct {
	s       *Session
	queue   []string
	started time.Time
	fetchAt time.Time
	current *legal.Citation
	stats   Stats
}

// Begin snapshots the pending citations in list order. Citations added later
// are not part of the pass.
func (s *Session) Begin() (*Pass, error) {
	if s.pass != nil {
		return nil, ErrPassInProgress
	}

	p := &Pass{s: s, started: s.now()}
	s.log("", "Starting processing...", StatusInfo)
	for _, r := range s.records {
		if r.Status == legal.StatusPending {
			p.queue = append(p.queue, r.ID)
		}
	}
	if len(p.queue) == 0 {
		s.log("", "No new items to process.", StatusInfo)
	}

	s.pass = p
	return p, nil
}

// Remaining returns the number of queued citations not yet handed out.
func (p *Pass) Remaining() int {
	return len(p.queue)
}

// Next marks the next queued citation in progress and returns it.
// Unknown-type citations are failed on the spot without a fetch; citations
// removed or no longer pending since Begin are skipped.
func (p *Pass) Next() (legal.Citation, bool) {
	s := p.s
	for len(p.queue) > 0 {
		id := p.queue[0]
		p.queue = p.queue[1:]

		i := s.index(id)
		if i < 0 || s.records[i].Status != legal.StatusPending {
			continue
		}

		r := &s.records[i]
		if r.Type == legal.Unknown {
			r.Status = legal.StatusFailed
			r.Error = "invalid format"
			p.stats.Processed++
			p.stats.Failed++
			s.log(r.Raw, "Invalid format, skipping.", string(legal.StatusFailed))
			continue
		}

		r.Status = legal.StatusInProgress
		s.log(r.Raw, "Starting fetch...", string(legal.StatusInProgress))
		p.fetchAt = s.now()
		c := *r
		p.current = &c
		return c, true
	}
	return legal.Citation{}, false
}

// Resolve records the outcome of fetching the citation returned by Next.
func (p *Pass) Resolve(id string, doc *legal.Document, err error) {
	s := p.s
	elapsed := s.now().Sub(p.fetchAt)
	p.stats.Processed++

	if err == nil && doc == nil {
		err = fmt.Errorf("no document returned")
	}

	bytes := 0
	if err != nil {
		p.stats.Failed++
	} else {
		p.stats.Succeeded++
		bytes = len(doc.Content)
		p.stats.Bytes += int64(bytes)
	}

	if s.observer != nil && p.current != nil && p.current.ID == id {
		s.observer.ObserveFetch(*p.current, bytes, elapsed, err)
	}
	p.current = nil

	i := s.index(id)
	if i < 0 {
		s.logger.Debug("dropping result for removed citation", "id", id)
		return
	}

	r := &s.records[i]
	if err != nil {
		r.Status = legal.StatusFailed
		r.Document = nil
		r.Error = err.Error()
		s.log(r.Raw, "Error: "+err.Error(), string(legal.StatusFailed))
		return
	}

	r.Status = legal.StatusDone
	r.Document = doc
	r.Error = ""
	s.log(r.Raw, fmt.Sprintf("Data extracted from '%s'.", doc.Source), string(legal.StatusDone))
}

// Finish closes the pass and returns its stats. The stats are also added to
// the session totals.
func (p *Pass) Finish() Stats {
	s := p.s
	p.stats.Elapsed = s.now().Sub(p.started)
	if s.pass == p {
		s.pass = nil
		s.totals.add(p.stats)
	}
	s.log("", "Processing finished.", StatusInfo)
	return p.stats
}
