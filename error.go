package orbitsim

import (
	"errors"
	"fmt"
)

// ErrUnknownBody is returned when a command targets a body index that does not exist.
var ErrUnknownBody = errors.New("orbitsim: unknown body index")

// ErrNonFiniteAngle is returned when a command would push an angle to NaN or infinity.
var ErrNonFiniteAngle = errors.New("orbitsim: command leaves angle non-finite")

// ConfigurationErrorReason describes which configuration rule was violated.
type ConfigurationErrorReason string

const (
	ReasonEmptyRange           ConfigurationErrorReason = "range is empty or inverted (min > max)"
	ReasonNonPositive          ConfigurationErrorReason = "value must be positive"
	ReasonNegative             ConfigurationErrorReason = "value must not be negative"
	ReasonEccentricityTooHigh  ConfigurationErrorReason = "eccentricity must stay below 1 (1000 thousandths)"
	ReasonEccentricityNegative ConfigurationErrorReason = "eccentricity must not be negative"
	ReasonDivisorTooSmall      ConfigurationErrorReason = "position divisor must be at least 1"
	ReasonNotFinite            ConfigurationErrorReason = "value must be a finite number"
	ReasonTooLarge             ConfigurationErrorReason = "value exceeds the supported maximum"
)

// ConfigurationError is returned when generation ranges or run parameters
// describe an unsatisfiable model. It is detected before the first tick.
type ConfigurationError struct {
	Field  string                   // Dotted path of the offending field, e.g. "population.mass"
	Reason ConfigurationErrorReason // The specific rule that was violated
	Value  string                   // The offending value, formatted for humans
}

// Error returns the error message for ConfigurationError.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("orbitsim: invalid configuration %s = %s: %s", e.Field, e.Value, e.Reason)
}

func configErr(field string, reason ConfigurationErrorReason, value any) *ConfigurationError {
	return &ConfigurationError{Field: field, Reason: reason, Value: fmt.Sprint(value)}
}

// DomainErrorReason defines the arithmetic region that was entered.
type DomainErrorReason string

const (
	ReasonEccentricityOutOfRange DomainErrorReason = "eccentricity outside [0, 1)"
	ReasonNegativeAcceleration   DomainErrorReason = "angular acceleration is negative"
	ReasonNonPositiveDenominator DomainErrorReason = "mass * semi-major axis^3 is not positive"
	ReasonNonPositiveDistance    DomainErrorReason = "radial distance is not positive"
	ReasonNonFiniteAngle         DomainErrorReason = "theta or phi is not a finite number"
)

// DomainError is returned when a tick step leaves the domain of its formula.
// It is fatal to the run.
type DomainError struct {
	Op     string            // Step that failed: "angle check", "force", "angular velocity", "angle"
	Body   int               // Index of the body in the integrator, -1 if not applicable
	Reason DomainErrorReason // The violated precondition
	Value  float64           // The value that caused the violation
}

// Error returns the error message for DomainError.
func (e *DomainError) Error() string {
	return fmt.Sprintf("orbitsim: %s step for body %d: %s (value: %.6e)", e.Op, e.Body, e.Reason, e.Value)
}
