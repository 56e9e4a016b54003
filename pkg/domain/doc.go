/*
Package domain contains the core model of the deterministic multi-tape Turing
machine.

It is kept free of I/O and persistence. Loaders, stores and front ends build
on these types; the execution loop lives in internal/runtime.

# Key Entities

  - Symbol, Alphabet: tape characters and the contiguous range plus blank they come from.
  - Tape, InputTape: two-way unbounded storage that grows one blank at a time.
  - Transition: guard (state, input symbol, work-tape symbols) and effect (target, writes, moves).
  - State: id, halting Class and its ordered transitions.
  - Program: a full machine definition as read from a program file or store.
*/
package domain
