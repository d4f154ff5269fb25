// Package isapitest provides a scriptable fake ISAPI device for tests.
package isapitest

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/lei/hikvision-gateway/pkg/isapi/client"
)

// DeviceInfoJSON is what a fresh Device answers on /ISAPI/System/deviceInfo
const DeviceInfoJSON = `{"DeviceInfo":{"deviceName":"Lobby Terminal","deviceID":"88","model":"DS-K1T671M","serialNumber":"DS-K1T671M20230101","macAddress":"a4:14:37:00:00:01","firmwareVersion":"V3.2.30","firmwareReleasedDate":"build 230101","deviceType":"ACS"}}`

const notFoundJSON = `{"statusCode":4,"statusString":"Invalid Operation","subStatusCode":"notSupport","errorMsg":"notSupport"}`

// Request is one request the device received
type Request struct {
	Method string
	Path   string
	Query  string
	Body   string
}

type response struct {
	status int
	body   string
}

// Device is an httptest server answering canned ISAPI responses keyed by
// method and path. Unscripted routes answer 404 with a ResponseStatus.
type Device struct {
	server *httptest.Server

	mu        sync.Mutex
	responses map[string]response
	requests  []Request
}

// NewDevice starts a device that is closed when t finishes
func NewDevice(t testing.TB) *Device {
	t.Helper()

	d := &Device{responses: make(map[string]response)}
	d.Handle(http.MethodGet, "/ISAPI/System/deviceInfo", http.StatusOK, DeviceInfoJSON)

	d.server = httptest.NewServer(http.HandlerFunc(d.serve))
	t.Cleanup(d.server.Close)
	return d
}

// Handle scripts the response for method and path
func (d *Device) Handle(method, path string, status int, body string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.responses[method+" "+path] = response{status: status, body: body}
}

// Requests returns the requests received so far
func (d *Device) Requests() []Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Request(nil), d.requests...)
}

// LastRequest returns the most recent request, or the zero Request
func (d *Device) LastRequest() Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.requests) == 0 {
		return Request{}
	}
	return d.requests[len(d.requests)-1]
}

// URL returns the device base address
func (d *Device) URL() string {
	return d.server.URL
}

// Close stops the device so every later request fails
func (d *Device) Close() {
	d.server.Close()
}

// Settings returns client settings that reach this device
func (d *Device) Settings() client.DeviceSettings {
	host, portStr, _ := net.SplitHostPort(d.server.Listener.Addr().String())
	port, _ := strconv.Atoi(portStr)
	return client.DeviceSettings{
		Host:     host,
		Port:     port,
		Username: "admin",
		Password: "secret",
		Protocol: "http",
	}
}

func (d *Device) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	d.mu.Lock()
	d.requests = append(d.requests, Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Body:   string(body),
	})
	resp, ok := d.responses[r.Method+" "+r.URL.Path]
	d.mu.Unlock()

	if !ok {
		resp = response{status: http.StatusNotFound, body: notFoundJSON}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}
