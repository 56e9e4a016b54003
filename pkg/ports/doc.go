/*
Package ports defines the driven ports (interfaces) for the dtm engine.

These interfaces decouple front ends (CLI, HTTP, MCP) from where programs are
kept, allowing them to work with memory, Redis, SQLite or a Markdown library.

# Key Interfaces

  - ProgramSource: read-only access to named programs (e.g. a Loam library).
  - ProgramStore: a ProgramSource that can also save and delete programs.
  - Watchable: a source that reports changed programs.

RunProgramStoreContract is a reusable test suite for ProgramStore adapters;
the tests subpackage holds the read-only counterpart for ProgramSource.
*/
package ports
