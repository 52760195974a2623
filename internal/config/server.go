package config

//
// server.go
// Copyright (C) 2025 Karol Będkowski <Karol Będkowski@kkomp>
//
// Distributed under terms of the GPLv3 license.
//

import (
	"net/http"
	"net/netip"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gitlab.com/kabes/go-pariwisata/internal/aerr"
)

// ListenConf describe one listener: address, optional tls and path prefix.
type ListenConf struct {
	Address string
	WebRoot string
	TLSKey  string
	TLSCert string
}

func (c *ListenConf) Validate() error {
	switch {
	case c.Address == "":
		return aerr.ErrValidation.WithUserMsg("listen address can't be empty")
	case (c.TLSKey == "") != (c.TLSCert == ""):
		return aerr.ErrValidation.WithUserMsg("tls requires both key and certificate").
			WithMeta("address", c.Address)
	case c.WebRoot != "" && !strings.HasPrefix(c.WebRoot, "/"):
		return aerr.ErrValidation.WithUserMsg("web root must start with '/'").
			WithMeta("webroot", c.WebRoot)
	}

	return nil
}

func (c *ListenConf) TLSEnabled() bool {
	return c.TLSKey != "" && c.TLSCert != ""
}

//-------------------------------------------------------------

// ServerConf hold configuration of api server and management server.
// Management endpoints are disabled when MgmtServer.Address is empty and
// served by api server when both addresses are equal.
type ServerConf struct {
	MainServer ListenConf
	MgmtServer ListenConf

	DebugFlags     DebugFlags
	EnableMetrics  bool
	MgmtAccessList string

	mgmtAccessList AccessList
}

func (c *ServerConf) Validate() error {
	if err := c.MainServer.Validate(); err != nil {
		return aerr.Wrapf(err, "invalid api server configuration")
	}

	if c.MgmtServer.Address != "" {
		if err := c.MgmtServer.Validate(); err != nil {
			return aerr.Wrapf(err, "invalid management server configuration")
		}
	}

	al, err := NewAccessList(c.MgmtAccessList)
	if err != nil {
		return aerr.Wrapf(err, "invalid management access list")
	}

	c.mgmtAccessList = al

	if !al.Empty() {
		log.Logger.Debug().Object("mgmt_access_list", al).Msg("Config: management access list configured")
	}

	return nil
}

func (c *ServerConf) SeparateMgmtEnabled() bool {
	return c.MgmtServer.Address != "" && c.MgmtServer.Address != c.MainServer.Address
}

func (c *ServerConf) MgmtEnabledOnMainServer() bool {
	return c.MgmtServer.Address != "" && c.MgmtServer.Address == c.MainServer.Address
}

// AuthMgmtRequest decide if request may access management endpoints.
// First result allow access, second allow access to sensitive data.
// Loopback is always allowed; when access list is empty private networks get
// access without sensitive data.
//
// Signature match golang.org/x/net/trace.AuthRequest.
func (c *ServerConf) AuthMgmtRequest(req *http.Request) (bool, bool) {
	addr, ok := remoteAddr(req.RemoteAddr)

	switch {
	case !ok:
		return false, false
	case addr.IsLoopback():
		return true, true
	case !c.mgmtAccessList.Empty():
		return c.mgmtAccessList.HasAccess(addr), true
	default:
		return addr.IsPrivate(), false
	}
}

// remoteAddr parse RemoteAddr with or without port (RealIP middleware drop port).
func remoteAddr(remote string) (netip.Addr, bool) {
	if remote == "localhost" || strings.HasPrefix(remote, "localhost:") {
		return netip.IPv6Loopback(), true
	}

	if ap, err := netip.ParseAddrPort(remote); err == nil {
		return ap.Addr().Unmap(), true
	}

	addr, err := netip.ParseAddr(strings.Trim(remote, "[]"))
	if err != nil {
		return netip.Addr{}, false
	}

	return addr.Unmap(), true
}

//-------------------------------------------------------------

// AccessList is list of networks; single address is stored as full-length prefix.
type AccessList []netip.Prefix

// NewAccessList parse comma separated list of addresses and networks in CIDR notation.
func NewAccessList(accesslist string) (AccessList, error) {
	var al AccessList

	for entry := range strings.SplitSeq(accesslist, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, aerr.ApplyFor(aerr.ErrValidation, err, "",
					"invalid network in access list").WithMeta("entry", entry)
			}

			al = append(al, prefix.Masked())

			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, aerr.ApplyFor(aerr.ErrValidation, err, "",
				"invalid address in access list").WithMeta("entry", entry)
		}

		addr = addr.Unmap()
		al = append(al, netip.PrefixFrom(addr, addr.BitLen()))
	}

	return al, nil
}

func (a AccessList) Empty() bool {
	return len(a) == 0
}

func (a AccessList) HasAccess(addr netip.Addr) bool {
	addr = addr.Unmap()

	return slices.ContainsFunc(a, func(p netip.Prefix) bool { return p.Contains(addr) })
}

func (a AccessList) MarshalZerologObject(event *zerolog.Event) {
	entries := make([]string, 0, len(a))
	for _, p := range a {
		entries = append(entries, p.String())
	}

	event.Strs("allowed", entries)
}
