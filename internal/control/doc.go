// Package control provides the feedback regulator of the servo loop.
//
// [PID] turns a scalar error into a correction using the elapsed wall-clock
// time between calls:
//
//	out = Kp*e + Ki*∫e dt + Kd*de/dt
//
// # Usage
//
//	pid := control.NewPID(0.8, 0.05, 0.1) // Kp, Ki, Kd
//	pid.Start()
//	u, err := pid.Update(setPoint, measured)
//
// No saturation is applied to the output, and the integral grows without
// bound unless [WithIntegralLimit] is given. Gains can be changed between
// updates through the accessors or [PID.SetParam] without losing state.
package control
