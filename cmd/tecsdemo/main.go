// Command tecsdemo plays a scenario of altitude and airspeed setpoints
// through a TECS controller over SocketCAN.
package main

import "tecs-core/internal/cmd"

func main() {
	cmd.Execute()
}
