// Package interpreter executes a C++ subset one suspension point at a time.
// It walks the tree-sitter syntax tree directly, keeps program memory in a
// runtime.Store, and pauses after every statement, loop condition and
// conditional-expression test so a driver can inspect a Snapshot between
// steps. Undefined behavior such as null or dangling dereferences surfaces
// as a *RuntimeError that terminates the run.
package interpreter
