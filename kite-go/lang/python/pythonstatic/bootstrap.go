package pythonstatic

import (
	"github.com/kiteco/pycall/kite-go/lang/python/pythonparser"
	"github.com/kiteco/pycall/kite-go/lang/python/pythontype"
	"github.com/kiteco/pycall/kite-golib/errors"
	"github.com/kiteco/pycall/kite-golib/kitectx"
)

// builtinsSource declares the parts of the builtins module that resolution
// and call typing rely on. Return annotations give the result of calling a
// builtin function; builtin functions without one have an unknown result.
const builtinsSource = `
class object:
    def __init__(self): pass
    def __new__(cls, *args, **kwargs): pass
    def __repr__(self) -> str: pass
    def __str__(self) -> str: pass
    def __eq__(self, other) -> bool: pass
    def __ne__(self, other) -> bool: pass
    def __hash__(self) -> int: pass

class type(object):
    def __init__(self, *args): pass
    def mro(self) -> list: pass

class super(object):
    def __init__(self, type=None, obj=None): pass

class classmethod(object):
    def __init__(self, function): pass

class staticmethod(object):
    def __init__(self, function): pass

class property(object):
    def __init__(self, fget=None, fset=None, fdel=None, doc=None): pass
    def getter(self, fget) -> property: pass
    def setter(self, fset) -> property: pass
    def deleter(self, fdel) -> property: pass

class int(object):
    def __init__(self, x=0, base=10): pass
    def bit_length(self) -> int: pass

class bool(int):
    def __init__(self, x=False): pass

class float(object):
    def __init__(self, x=0.0): pass
    def is_integer(self) -> bool: pass

class complex(object):
    def __init__(self, real=0, imag=0): pass
    def conjugate(self) -> complex: pass

class str(object):
    def __init__(self, object=''): pass
    def join(self, iterable) -> str: pass
    def split(self, sep=None, maxsplit=-1) -> list: pass
    def strip(self, chars=None) -> str: pass
    def lower(self) -> str: pass
    def upper(self) -> str: pass
    def replace(self, old, new, count=-1) -> str: pass
    def startswith(self, prefix, start=None, end=None) -> bool: pass
    def endswith(self, suffix, start=None, end=None) -> bool: pass
    def format(self, *args, **kwargs) -> str: pass
    def encode(self, encoding='utf-8', errors='strict') -> bytes: pass

class bytes(object):
    def __init__(self, source=b'', encoding=None, errors=None): pass
    def decode(self, encoding='utf-8', errors='strict') -> str: pass

class list(object):
    def __init__(self, iterable=()): pass
    def append(self, object) -> None: pass
    def extend(self, iterable) -> None: pass
    def insert(self, index, object) -> None: pass
    def remove(self, value) -> None: pass
    def pop(self, index=-1): pass
    def index(self, value, start=0, stop=None) -> int: pass
    def count(self, value) -> int: pass
    def sort(self, *, key=None, reverse=False) -> None: pass
    def reverse(self) -> None: pass
    def copy(self) -> list: pass

class tuple(object):
    def __init__(self, iterable=()): pass
    def index(self, value, start=0, stop=None) -> int: pass
    def count(self, value) -> int: pass

class dict(object):
    def __init__(self, *args, **kwargs): pass
    def get(self, key, default=None): pass
    def keys(self) -> list: pass
    def values(self) -> list: pass
    def items(self) -> list: pass
    def pop(self, key, *default): pass
    def setdefault(self, key, default=None): pass
    def update(self, *args, **kwargs) -> None: pass
    def clear(self) -> None: pass
    def copy(self) -> dict: pass

class set(object):
    def __init__(self, iterable=()): pass
    def add(self, element) -> None: pass
    def discard(self, element) -> None: pass
    def remove(self, element) -> None: pass
    def union(self, *others) -> set: pass
    def intersection(self, *others) -> set: pass
    def difference(self, *others) -> set: pass

class frozenset(object):
    def __init__(self, iterable=()): pass

class range(object):
    def __init__(self, *args): pass

class enumerate(object):
    def __init__(self, iterable, start=0): pass

class BaseException(object):
    def __init__(self, *args): pass
    def with_traceback(self, tb): pass

class Exception(BaseException): pass
class ValueError(Exception): pass
class TypeError(Exception): pass
class KeyError(Exception): pass
class IndexError(Exception): pass
class AttributeError(Exception): pass
class RuntimeError(Exception): pass
class NotImplementedError(RuntimeError): pass
class StopIteration(Exception): pass

def abs(x): pass
def all(iterable) -> bool: pass
def any(iterable) -> bool: pass
def callable(obj) -> bool: pass
def chr(i) -> str: pass
def dir(obj=None) -> list: pass
def divmod(a, b) -> tuple: pass
def format(value, format_spec='') -> str: pass
def getattr(obj, name, default=None): pass
def hasattr(obj, name) -> bool: pass
def hash(obj) -> int: pass
def id(obj) -> int: pass
def input(prompt=None) -> str: pass
def isinstance(obj, class_or_tuple) -> bool: pass
def issubclass(cls, class_or_tuple) -> bool: pass
def iter(obj, sentinel=None): pass
def len(obj) -> int: pass
def max(*args, **kwargs): pass
def min(*args, **kwargs): pass
def next(iterator, default=None): pass
def open(file, mode='r', buffering=-1, encoding=None, errors=None, newline=None, closefd=True, opener=None): pass
def ord(c) -> int: pass
def pow(x, y, z=None): pass
def print(*args, sep=' ', end='\n', file=None, flush=False) -> None: pass
def repr(obj) -> str: pass
def round(number, ndigits=None): pass
def setattr(obj, name, value) -> None: pass
def sorted(iterable, *, key=None, reverse=False) -> list: pass
def sum(iterable, start=0): pass
def vars(obj=None) -> dict: pass
def zip(*iterables): pass
def map(func, *iterables): pass
def filter(function, iterable): pass
`

// loadBuiltins analyzes the builtins stub. Each analysis gets its own copy so
// that the classes of the builtins are never shared between goroutines.
func loadBuiltins(ctx kitectx.Context, version pythontype.Version) *Analysis {
	ctx.CheckAbort()

	mod, err := pythonparser.Parse(ctx, []byte(builtinsSource), pythonparser.Options{})
	if err != nil {
		panic(errors.Errorf("unable to parse builtins: %v", err))
	}

	b := newAnalysis(mod, Options{Version: version, Name: "builtins"})
	b.isBuiltins = true
	b.analyze(ctx)
	return b
}
