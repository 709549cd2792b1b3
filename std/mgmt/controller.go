package mgmt

import (
	"fmt"
	"time"

	enc "github.com/ndn-go/face/std/encoding"
	"github.com/ndn-go/face/std/ndn"
	"github.com/ndn-go/face/std/scheduler"
	"github.com/ndn-go/face/std/types/optional"
)

// Expresser is the subset of the Face's producer-facing API a
// Controller needs to carry out a management round trip. It is
// satisfied by *face.Face without this package importing it, so the
// dependency runs only one way: face depends on mgmt, not the reverse.
type Expresser interface {
	ExpressInterest(interest ndn.Interest, wire enc.Wire, callback ndn.ExpressCallbackFunc) error
}

// SigChecker validates the signature on a management response Data.
// A nil SigChecker (the default, or one passed to SetSigChecker)
// accepts every response.
type SigChecker func(name enc.Name, sigCovered enc.Wire, sig ndn.Signature) bool

// DefaultCommandTimeout bounds how long a registration, unregistration,
// or announcement command Interest waits for a reply before the
// Controller reports it as failed, per §4.4's "configurable, default
// 10 s" overall command timeout.
const DefaultCommandTimeout = 10 * time.Second

// Controller issues signed NFD management commands (rib/register,
// rib/unregister, rib/announce) over a Face and parses their responses.
// It mirrors ndn-cxx's nfd::Controller, trimmed to the register,
// unregister and announce verbs this repo's RIB-mirroring support
// actually needs.
type Controller struct {
	local bool
	spec  ndn.Spec
	sched scheduler.Scheduler
	face  Expresser

	signer  ndn.Signer
	checker SigChecker

	commandTimeout time.Duration
}

// NewController builds a Controller that issues commands against
// /localhost/nfd/... when local is true, or /localhop/nfd/... (for a
// remote forwarder hop) otherwise. Command Interests are given
// DefaultCommandTimeout as their lifetime; override with
// SetCommandTimeout.
func NewController(local bool, spec ndn.Spec, sched scheduler.Scheduler, face Expresser) *Controller {
	return &Controller{
		local:          local,
		spec:           spec,
		sched:          sched,
		face:           face,
		commandTimeout: DefaultCommandTimeout,
	}
}

// SetCommandTimeout overrides the lifetime given to every subsequent
// command Interest this Controller issues.
func (c *Controller) SetCommandTimeout(d time.Duration) {
	c.commandTimeout = d
}

// SetSigner sets the signer used on outgoing command Interests.
func (c *Controller) SetSigner(signer ndn.Signer) {
	c.signer = signer
}

// SetSigChecker sets the validator run against an incoming command
// response's signature. A nil checker accepts every response.
func (c *Controller) SetSigChecker(checker SigChecker) {
	c.checker = checker
}

// MakeCmd encodes and signs a /localhost|localhop/nfd/<module>/<cmd>
// command Interest carrying args as its ControlParameters.
func (c *Controller) MakeCmd(module, cmd string, args *ControlArgs, config *ndn.InterestConfig) (*ndn.EncodedInterest, error) {
	var name enc.Name
	if c.local {
		name = enc.Name{enc.LOCALHOST}
	} else {
		name = enc.Name{enc.LOCALHOP}
	}
	name = append(name,
		enc.NewStringComponent(enc.TypeGenericNameComponent, "nfd"),
		enc.NewStringComponent(enc.TypeGenericNameComponent, module),
		enc.NewStringComponent(enc.TypeGenericNameComponent, cmd),
		enc.NewBytesComponent(enc.TypeGenericNameComponent, args.Encode()),
	)
	return c.spec.MakeInterest(name, config, enc.Wire{}, c.signer)
}

// commandConfig builds the InterestConfig NFD requires on every signed
// command Interest: a short lifetime, MustBeFresh, and the
// SignatureNonce/SignatureTime fields NFD's command validator checks.
func (c *Controller) commandConfig() *ndn.InterestConfig {
	return &ndn.InterestConfig{
		Lifetime:    optional.Some(c.commandTimeout),
		Nonce:       optional.Some(c.sched.Nonce()),
		MustBeFresh: true,
		SigNonce:    nonceBytes(c.sched.Nonce()),
		SigTime:     optional.Some(time.Duration(c.sched.Now().UnixMilli()) * time.Millisecond),
	}
}

func nonceBytes(n uint32) []byte {
	return []byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
}

// Exec issues module/cmd with args and blocks until the response
// arrives, is Nacked, or times out. A StatusCode of 400 or above in an
// otherwise valid response is reported as an error, not returned as a
// successful ControlResponse, matching ExecMgmtCmd's contract. It must
// not be called from the Face's loop goroutine: it blocks the caller
// on a channel fed by a callback the loop itself must run to deliver.
func (c *Controller) Exec(module, cmd string, args *ControlArgs) (*ControlResponse, error) {
	type result struct {
		resp *ControlResponse
		err  error
	}
	done := make(chan result, 1)
	err := c.ExecAsync(module, cmd, args, func(resp *ControlResponse, err error) {
		done <- result{resp: resp, err: err}
	})
	if err != nil {
		return nil, err
	}
	r := <-done
	return r.resp, r.err
}

// ExecAsync issues module/cmd with args and returns immediately;
// callback runs once, from the Face's loop goroutine, with the parsed
// response or an error (command Nack, timeout, or a non-success
// StatusCode). Safe to call from the loop goroutine itself, unlike
// Exec.
func (c *Controller) ExecAsync(module, cmd string, args *ControlArgs, callback func(*ControlResponse, error)) error {
	interest, err := c.MakeCmd(module, cmd, args, c.commandConfig())
	if err != nil {
		return err
	}
	return c.execInterest(interest, callback)
}

// MakeAnnounceCmd encodes a rib/announce command Interest carrying a
// pre-built, pre-signed PrefixAnnouncement as its final name
// component, per NFD's announce-verb convention.
func (c *Controller) MakeAnnounceCmd(announcement enc.Wire, config *ndn.InterestConfig) (*ndn.EncodedInterest, error) {
	var name enc.Name
	if c.local {
		name = enc.Name{enc.LOCALHOST}
	} else {
		name = enc.Name{enc.LOCALHOP}
	}
	name = append(name,
		enc.NewStringComponent(enc.TypeGenericNameComponent, "nfd"),
		enc.NewStringComponent(enc.TypeGenericNameComponent, "rib"),
		enc.NewStringComponent(enc.TypeGenericNameComponent, "announce"),
		enc.NewBytesComponent(enc.TypeGenericNameComponent, announcement.Join()),
	)
	return c.spec.MakeInterest(name, config, enc.Wire{}, c.signer)
}

// AnnounceRouteAsync issues rib/announce carrying announcement and
// returns immediately; callback runs once, from the Face's loop
// goroutine, as ExecAsync's does.
func (c *Controller) AnnounceRouteAsync(announcement enc.Wire, callback func(*ControlResponse, error)) error {
	interest, err := c.MakeAnnounceCmd(announcement, c.commandConfig())
	if err != nil {
		return err
	}
	return c.execInterest(interest, callback)
}

func (c *Controller) execInterest(interest *ndn.EncodedInterest, callback func(*ControlResponse, error)) error {
	interestPkt, _, err := c.spec.ReadInterest(enc.NewWireView(interest.Wire))
	if err != nil {
		return err
	}

	return c.face.ExpressInterest(interestPkt, interest.Wire, func(args ndn.ExpressCallbackArgs) {
		switch args.Result {
		case ndn.InterestResultNack:
			callback(nil, fmt.Errorf("command nacked: %v", args.NackReason))
		case ndn.InterestResultTimeout:
			callback(nil, ndn.ErrDeadlineExceed)
		case ndn.InterestResultData:
			if c.checker != nil && !c.checker(args.Data.Name(), args.SigCovered, args.Data.Signature()) {
				callback(nil, fmt.Errorf("command response signature invalid"))
				return
			}
			resp, err := ParseControlResponse(args.Data.Content())
			if err != nil {
				callback(nil, err)
				return
			}
			if !resp.Success() {
				callback(nil, fmt.Errorf("command failed with code %d: %s", resp.StatusCode, resp.StatusText))
				return
			}
			callback(resp, nil)
		default:
			callback(nil, fmt.Errorf("unexpected interest result: %v", args.Result))
		}
	})
}

// RegisterRoute issues rib/register for prefix with opts.
func (c *Controller) RegisterRoute(prefix enc.Name, opts RegisterOptions) (*ControlResponse, error) {
	args := &ControlArgs{Name: prefix}
	if opts.Origin != 0 {
		args.Origin = &opts.Origin
	}
	if opts.Cost != 0 {
		args.Cost = &opts.Cost
	}
	if opts.Flags != 0 {
		args.Flags = &opts.Flags
	}
	if opts.ExpirationPeriod != 0 {
		args.ExpirationPeriod = &opts.ExpirationPeriod
	}
	return c.Exec("rib", "register", args)
}

// UnregisterRoute issues rib/unregister for prefix.
func (c *Controller) UnregisterRoute(prefix enc.Name, origin uint64) (*ControlResponse, error) {
	args := &ControlArgs{Name: prefix}
	if origin != 0 {
		args.Origin = &origin
	}
	return c.Exec("rib", "unregister", args)
}

// RegisterOptions mirrors table.RegisterOptions without importing the
// table package, avoiding a dependency cycle between mgmt and the
// caller that owns the RPT.
type RegisterOptions struct {
	Origin           uint64
	Cost             uint64
	Flags            uint64
	ExpirationPeriod uint64
}
