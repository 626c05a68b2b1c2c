package ir

import (
	"fmt"
)

// ResourceNotFoundError is returned when a schema location cannot be turned
// into a readable local file
type ResourceNotFoundError struct {
	URI      string
	Location string
	Reason   string
}

func (self *ResourceNotFoundError) Error() string {
	where := self.Location
	if where == "" {
		where = self.URI
	}
	return fmt.Sprintf("resource %s not found: %s", where, self.Reason)
}

// ReaderError is a malformed or inconsistent document
type ReaderError struct {
	Source Source
	Msg    string
	Err    error
}

func (self *ReaderError) Error() string {
	msg := self.Msg
	if self.Err != nil {
		msg += ": " + self.Err.Error()
	}
	if self.Source.File == "" {
		return msg
	}
	return fmt.Sprintf("%s: %s", self.Source, msg)
}

func (self *ReaderError) Unwrap() error {
	return self.Err
}

// TypeConflictError is raised when two declarations share a TypeId but not
// their structure, or when overriding is forbidden altogether
type TypeConflictError struct {
	ID       TypeId
	Existing Source
	Incoming Source
	Override bool
}

func (self *TypeConflictError) Error() string {
	if self.Override {
		return fmt.Sprintf("type %s declared at %s is redeclared at %s and type overrides are forbidden", self.ID, self.Existing, self.Incoming)
	}
	return fmt.Sprintf("type %s declared at %s conflicts with a different declaration at %s", self.ID, self.Existing, self.Incoming)
}

// TypeDoesNotExistError is returned for a reference to a type that was never registered
type TypeDoesNotExistError struct {
	ID TypeId
	// what referenced the missing type, if known
	Referrer string
}

func (self *TypeDoesNotExistError) Error() string {
	if self.Referrer == "" {
		return fmt.Sprintf("type %s does not exist", self.ID)
	}
	return fmt.Sprintf("type %s referenced by %s does not exist", self.ID, self.Referrer)
}

// ConfigError is an invalid or unrecognized configuration entry
type ConfigError struct {
	Key string
	Msg string
}

func (self *ConfigError) Error() string {
	if self.Key == "" {
		return "configuration: " + self.Msg
	}
	return fmt.Sprintf("configuration key %q: %s", self.Key, self.Msg)
}

// NotResolvedError is a lookup of resolution data for a type the resolution passes never reached
type NotResolvedError struct {
	ID TypeId
}

func (self *NotResolvedError) Error() string {
	return fmt.Sprintf("type %s has not been resolved", self.ID)
}
