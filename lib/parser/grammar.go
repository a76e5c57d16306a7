package parser

// Grammar is the language accepted by Parse, in EBNF.
const Grammar = `Program      = "program" IDENT ";" Block "." .
Block        = Consts Vars Instructions .
Consts       = [ "const" ConstDecl { ConstDecl } ] .
ConstDecl    = IDENT ( "=" | ":=" ) NUMBER ";" .
Vars         = [ "var" VarDecl { VarDecl } ] .
VarDecl      = IDENT { "," IDENT } ";" .
Instructions = "begin" { Instruction ";" } "end" .
Instruction  = Assignment | If | While | Read | Write | Instructions .
Assignment   = IDENT ":=" Expr .
If           = "if" Condition "then" Instruction .
While        = "while" Condition "do" Instruction .
Read         = "read" "(" IDENT { "," IDENT } ")" .
Write        = "write" "(" Expr { "," Expr } ")" .
Condition    = Expr ( "<" | "<=" | ">" | ">=" | "<>" | "=" | ":=" ) Expr .
Expr         = Term { ( "+" | "-" ) Term } .
Term         = Factor { ( "*" | "/" ) Factor } .
Factor       = IDENT | NUMBER | "(" Expr ")" .
`
