// Package devserver frees the local ports held by earlier development server
// instances and relaunches the server.
//
// Port and process discovery goes through the PortInspector capability. The
// default implementation, SystemInspector, asks the operating system via
// gopsutil; tests supply their own.
package devserver
