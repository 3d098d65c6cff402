/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package profile

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hyperledger-labs/fabric-papernet/papernet/driver"
	"github.com/hyperledger-labs/fabric-papernet/papernet/services/logging"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var logger = logging.MustGetLogger("papernet.network.profile")

const (
	SSLTargetNameOverride = "ssl-target-name-override"
	Localhost             = "localhost"

	schemeTLS       = "grpcs"
	schemePlaintext = "grpc"
)

// Profile is a Fabric common connection profile
type Profile struct {
	Name          string                  `yaml:"name"`
	Version       string                  `yaml:"version"`
	Client        Client                  `yaml:"client"`
	Organizations map[string]Organization `yaml:"organizations"`
	Peers         map[string]Node         `yaml:"peers"`
	Orderers      map[string]Node         `yaml:"orderers"`
	Channels      map[string]Channel      `yaml:"channels"`
}

type Client struct {
	Organization string `yaml:"organization"`
}

type Organization struct {
	MSPID string   `yaml:"mspid"`
	Peers []string `yaml:"peers"`
}

// Node is a peer or an orderer
type Node struct {
	URL         string                 `yaml:"url"`
	TLSCACerts  TLSCACerts             `yaml:"tlsCACerts"`
	GRPCOptions map[string]interface{} `yaml:"grpcOptions"`
}

type TLSCACerts struct {
	Pem  string `yaml:"pem"`
	Path string `yaml:"path"`
}

type Channel struct {
	Orderers   []string     `yaml:"orderers"`
	Peers      ChannelPeers `yaml:"peers"`
	Chaincodes []string     `yaml:"chaincodes"`
}

// ChannelPeer lists the roles a peer plays in a channel
type ChannelPeer struct {
	EndorsingPeer  *bool `yaml:"endorsingPeer"`
	ChaincodeQuery *bool `yaml:"chaincodeQuery"`
	LedgerQuery    *bool `yaml:"ledgerQuery"`
	EventSource    *bool `yaml:"eventSource"`
}

// ChannelPeers accepts both the map and the list form of the channel peers section
type ChannelPeers map[string]ChannelPeer

func (c *ChannelPeers) UnmarshalYAML(unmarshal func(interface{}) error) error {
	m := map[string]ChannelPeer{}
	if err := unmarshal(&m); err == nil {
		*c = m
		return nil
	}
	var l []string
	if err := unmarshal(&l); err != nil {
		return errors.New("channel peers must be a map or a list of peer names")
	}
	m = make(map[string]ChannelPeer, len(l))
	for _, name := range l {
		m[name] = ChannelPeer{}
	}
	*c = m
	return nil
}

// Load reads the profile at the passed path. TLS certificate paths are resolved
// relative to the profile directory.
func Load(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, driver.NewError(driver.ErrConnection, err, "cannot read network profile [%s]", path)
	}
	return Parse(raw, filepath.Dir(path))
}

// Parse decodes a YAML or JSON profile and validates it
func Parse(raw []byte, baseDir string) (*Profile, error) {
	p := &Profile{}
	if err := yaml.Unmarshal(raw, p); err != nil {
		return nil, driver.NewError(driver.ErrConnection, err, "malformed network profile")
	}
	if err := p.resolveCertificates(baseDir); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks that the profile describes a reachable client organization
func (p *Profile) Validate() error {
	if len(p.Client.Organization) == 0 {
		return driver.Errorf(driver.ErrConnection, "malformed network profile: no client organization")
	}
	org, ok := p.Organizations[p.Client.Organization]
	if !ok {
		return driver.Errorf(driver.ErrConnection, "malformed network profile: unknown client organization [%s]", p.Client.Organization)
	}
	if len(org.Peers) == 0 {
		return driver.Errorf(driver.ErrConnection, "malformed network profile: organization [%s] has no peers", p.Client.Organization)
	}
	for name, o := range p.Organizations {
		if len(o.MSPID) == 0 {
			return driver.Errorf(driver.ErrConnection, "malformed network profile: organization [%s] has no mspid", name)
		}
		for _, peer := range o.Peers {
			if err := p.checkNode(p.Peers, "peer", peer); err != nil {
				return err
			}
		}
	}
	for name, ch := range p.Channels {
		for peer := range ch.Peers {
			if _, ok := p.Peers[peer]; !ok {
				return driver.Errorf(driver.ErrConnection, "malformed network profile: channel [%s] references unknown peer [%s]", name, peer)
			}
		}
		for _, orderer := range ch.Orderers {
			if err := p.checkNode(p.Orderers, "orderer", orderer); err != nil {
				return err
			}
		}
	}
	return nil
}

// MSPID returns the msp id of the client organization
func (p *Profile) MSPID() string {
	return p.Organizations[p.Client.Organization].MSPID
}

// HasChannel returns true if the profile lists the passed channel
func (p *Profile) HasChannel(channel string) bool {
	_, ok := p.Channels[channel]
	return ok
}

// HasChaincode returns true if the passed chaincode can be addressed on the passed channel.
// A channel without a chaincodes list does not constrain chaincode names.
func (p *Profile) HasChaincode(channel, chaincode string) bool {
	ch, ok := p.Channels[channel]
	if !ok {
		return false
	}
	if len(ch.Chaincodes) == 0 {
		return true
	}
	for _, cc := range ch.Chaincodes {
		// entries are in the form name[:version]
		if name, _, _ := strings.Cut(cc, ":"); name == chaincode {
			return true
		}
	}
	return false
}

// AsLocalhost returns a copy of the profile with every node address rewritten to the loopback
// interface. The original host is kept as TLS server name.
func (p *Profile) AsLocalhost() *Profile {
	c := *p
	c.Peers = localhostNodes(p.Peers)
	c.Orderers = localhostNodes(p.Orderers)
	return &c
}

// Endpoints returns the gateway candidates in dial order: the peers of the client organization
// first; with discovery enabled, every other known peer follows, ordered by name.
// A malformed client organization peer is an error, a malformed fail-over peer is skipped.
func (p *Profile) Endpoints(discovery bool) ([]driver.Endpoint, error) {
	org := p.Organizations[p.Client.Organization]
	seen := map[string]bool{}
	var endpoints []driver.Endpoint
	for _, name := range org.Peers {
		e, err := p.endpoint(name)
		if err != nil {
			return nil, err
		}
		seen[name] = true
		endpoints = append(endpoints, e)
	}
	if !discovery {
		return endpoints, nil
	}

	var others []string
	for name := range p.Peers {
		if !seen[name] {
			others = append(others, name)
		}
	}
	sort.Strings(others)
	for _, name := range others {
		e, err := p.endpoint(name)
		if err != nil {
			logger.Warnf("skipping fail-over peer [%s]: %s", name, err)
			continue
		}
		endpoints = append(endpoints, e)
	}
	return endpoints, nil
}

func (p *Profile) endpoint(name string) (driver.Endpoint, error) {
	n := p.Peers[name]
	address, tls, err := splitURL(n.URL)
	if err != nil {
		return driver.Endpoint{}, driver.NewError(driver.ErrConnection, err, "invalid url for peer [%s]", name)
	}
	e := driver.Endpoint{
		Name:               name,
		Address:            address,
		ServerNameOverride: n.serverNameOverride(),
	}
	if tls {
		if len(n.TLSCACerts.Pem) == 0 {
			return driver.Endpoint{}, driver.Errorf(driver.ErrConnection, "peer [%s] uses tls but has no ca certificate", name)
		}
		e.TLSCACert = []byte(n.TLSCACerts.Pem)
	}
	return e, nil
}

func (p *Profile) checkNode(nodes map[string]Node, kind, name string) error {
	n, ok := nodes[name]
	if !ok {
		return driver.Errorf(driver.ErrConnection, "malformed network profile: unknown %s [%s]", kind, name)
	}
	if len(n.URL) == 0 {
		return driver.Errorf(driver.ErrConnection, "malformed network profile: %s [%s] has no url", kind, name)
	}
	if _, _, err := splitURL(n.URL); err != nil {
		return driver.NewError(driver.ErrConnection, err, "malformed network profile: %s [%s]", kind, name)
	}
	return nil
}

func (p *Profile) resolveCertificates(baseDir string) error {
	for _, nodes := range []map[string]Node{p.Peers, p.Orderers} {
		for name, n := range nodes {
			if len(n.TLSCACerts.Pem) != 0 || len(n.TLSCACerts.Path) == 0 {
				continue
			}
			path := n.TLSCACerts.Path
			if !filepath.IsAbs(path) {
				path = filepath.Join(baseDir, path)
			}
			raw, err := os.ReadFile(path)
			if err != nil {
				return driver.NewError(driver.ErrConnection, err, "cannot read tls ca certificate of [%s]", name)
			}
			n.TLSCACerts.Pem = string(raw)
			nodes[name] = n
		}
	}
	return nil
}

func (n Node) serverNameOverride() string {
	if v, ok := n.GRPCOptions[SSLTargetNameOverride]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}

func localhostNodes(nodes map[string]Node) map[string]Node {
	res := make(map[string]Node, len(nodes))
	for name, n := range nodes {
		u, err := rewriteHost(n.URL, Localhost)
		if err != nil {
			// left as is, dialing it fails later with the address error
			logger.Warnf("cannot rewrite address of [%s]: %s", name, err)
			res[name] = n
			continue
		}
		address, _, _ := splitURL(n.URL)
		host, _, _ := net.SplitHostPort(address)

		opts := make(map[string]interface{}, len(n.GRPCOptions)+1)
		for k, v := range n.GRPCOptions {
			opts[k] = v
		}
		if _, ok := opts[SSLTargetNameOverride]; !ok && host != Localhost {
			opts[SSLTargetNameOverride] = host
		}
		n.URL = u
		n.GRPCOptions = opts
		res[name] = n
	}
	return res
}

// splitURL returns host:port and whether tls is required
func splitURL(raw string) (string, bool, error) {
	if !strings.Contains(raw, "://") {
		if _, _, err := net.SplitHostPort(raw); err != nil {
			return "", false, errors.Wrapf(err, "invalid address [%s]", raw)
		}
		return raw, true, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", false, errors.Wrapf(err, "invalid url [%s]", raw)
	}
	if _, _, err := net.SplitHostPort(u.Host); err != nil {
		return "", false, errors.Wrapf(err, "invalid address in url [%s]", raw)
	}
	switch u.Scheme {
	case schemeTLS:
		return u.Host, true, nil
	case schemePlaintext:
		return u.Host, false, nil
	default:
		return "", false, errors.Errorf("unsupported scheme [%s] in url [%s]", u.Scheme, raw)
	}
}

func rewriteHost(raw string, host string) (string, error) {
	address, _, err := splitURL(raw)
	if err != nil {
		return "", err
	}
	_, port, err := net.SplitHostPort(address)
	if err != nil {
		return "", errors.Wrapf(err, "invalid address [%s]", address)
	}
	return strings.Replace(raw, address, net.JoinHostPort(host, port), 1), nil
}
