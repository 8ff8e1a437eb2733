// Package model defines the prototype model graph: leaf parameters and
// derived nodes forming a DAG. The build engine never evaluates these
// graphs; it only reads their structure and produces partially substituted
// clones of them. A Model validates its graph once at construction so the
// recursive passes downstream can assume acyclicity.
package model
