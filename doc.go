/*
Package lyra is a front-end compiler core for a small LISP-influenced
functional language: lexer, two-phase grammar matcher and AST builder,
a namespace/environment/symbol-resolution model, and a two-stage
resolver, wired together by a compiler driver. Package structure is as
follows:

■ token: lexeme-carrying token kinds and source positions shared by
every later stage.

■ lexer: the hand-written scanner producing a token stream from source
text.

■ cursor: the driver/sub-cursor split over a token stream — destructive
consumption for AST building, cheap speculative views for grammar
matching.

■ gform: the grammar matcher, producing an untyped shape tree ahead of
AST construction.

■ ast: the AST builder, re-consuming the token stream under the
grammar matcher's guidance.

■ symbol, langtype: the symbol and type sum-types the resolver attaches
to AST nodes.

■ namespace: the namespace tree, per-namespace compiled-unit list, and
scope-indexed symbol table.

■ env: Environment (the namespace tree's owner) and SubEnvironment (the
resolver's per-traversal scope-chain cursor).

■ resolver: the two-stage resolver — declaration/import collection,
then use-site resolution in dependency order.

■ compiler: the driver that schedules the whole pipeline across a
namespace tree discovered from `import` statements.

■ errs: the diagnostic taxonomy every fallible stage reports through.

■ result: a generic Result type replacing manual error-chain
propagation.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022–2026 dhickel

*/
package lyra
